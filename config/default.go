package config

// DefaultConfigYAML 内置默认配置，可被外部 config.yaml 或 KAS_* 环境变量覆盖
var DefaultConfigYAML = []byte(`server:
  port: ":8080"
  mode: "debug"
  base_url: "http://localhost:8080"

database:
  host: "127.0.0.1"
  port: "3306"
  username: "kas"
  password: "kas123456"
  dbname: "kas"
  charset: "utf8mb4"

jwt:
  secret: "kas-dev-secret-change-me"
  expire_hours: 24

email:
  enabled: false
  host: "smtp.example.com"
  port: 465
  username: ""
  password: ""
  from: "组织财务系统"

admin:
  email: "admin@example.com"
  password: "admin123456"
`)
