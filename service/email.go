package service

import (
	"fmt"

	"kas/config"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务：向成员推送公告通知
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 邮件服务是否启用
func (s *EmailService) Enabled() bool {
	return s.cfg.Enabled
}

// SendAnnouncementEmail 发送公告通知邮件
func (s *EmailService) SendAnnouncementEmail(toEmail, name, title, content, annType string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用，请配置 email.enabled=true")
	}

	subject := fmt.Sprintf("【组织财务系统】公告：%s", title)
	body := s.generateAnnouncementBody(name, title, content, annType)

	return s.sendEmail(toEmail, subject, body)
}

// generateAnnouncementBody 生成公告邮件内容
func (s *EmailService) generateAnnouncementBody(name, title, content, annType string) string {
	// 公告类型对应的主题色
	color := "#2563eb"
	switch annType {
	case "warning":
		color = "#f59e0b"
	case "success":
		color = "#10b981"
	case "error":
		color = "#ef4444"
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: %s; color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 22px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>%s</h1>
        </div>
        <div class="content">
            <p>%s，您好！</p>
            <p>%s</p>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
            <p>© 组织财务管理系统</p>
        </div>
    </div>
</body>
</html>
`, color, title, name, content)
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}
