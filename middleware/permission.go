package middleware

import (
	"net/http"
	"strings"
	"sync"

	"kas/models"

	"github.com/gin-gonic/gin"
)

// opRoles 操作级角色规则：`METHOD /path/pattern` -> 允许的角色集合
// 未命中任何规则的操作对所有已认证角色开放。
// 参考实现只锁用户管理；更细的限制（如仅 bendahara 可记账）通过 RequireRoles 配置。
var (
	opRolesMu sync.RWMutex
	opRoles   = map[string][]string{
		"GET /api/v1/users":            {models.RoleAdmin},
		"POST /api/v1/users":           {models.RoleAdmin},
		"PUT /api/v1/users/:id/role":   {models.RoleAdmin},
		"PUT /api/v1/users/:id/status": {models.RoleAdmin},
	}
)

// RequireRoles 注册（或覆盖）某个操作允许的角色集合，可插拔的配置点
// pattern 形如 "POST /api/v1/transactions"，路径段支持 :param 占位符。
func RequireRoles(pattern string, roles ...string) {
	opRolesMu.Lock()
	defer opRolesMu.Unlock()
	opRoles[pattern] = roles
}

// RolePermission 角色权限校验中间件，需在 JWTAuth 之后使用
func RolePermission() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetCurrentUserRole(c)
		if role == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "请先登录"})
			c.Abort()
			return
		}

		allowed, matched := rolesFor(c.Request.Method, c.Request.URL.Path)
		if !matched {
			// 无规则：所有已认证角色可访问
			c.Next()
			return
		}
		for _, r := range allowed {
			if r == role {
				c.Next()
				return
			}
		}

		// 与参数校验错误区分开，前端据此触发重新认证/提权流程
		c.JSON(http.StatusForbidden, gin.H{"code": 403, "message": "权限不足"})
		c.Abort()
	}
}

// rolesFor 查找 method+path 命中的规则
func rolesFor(method, path string) ([]string, bool) {
	opRolesMu.RLock()
	defer opRolesMu.RUnlock()
	for key, roles := range opRoles {
		parts := strings.SplitN(key, " ", 2)
		if len(parts) != 2 {
			continue
		}
		if parts[0] != method {
			continue
		}
		if matchPath(path, parts[1]) {
			return roles, true
		}
	}
	return nil, false
}

// matchPath 检查实际路径是否匹配 pattern（支持 :id 等占位符）
// /api/v1/users/u1/role 匹配 /api/v1/users/:id/role
func matchPath(actual, pattern string) bool {
	a := splitPath(actual)
	p := splitPath(pattern)
	if len(a) != len(p) {
		return false
	}
	for i := range a {
		if len(p[i]) > 0 && p[i][0] == ':' {
			if a[i] == "" {
				return false
			}
			continue
		}
		if a[i] != p[i] {
			return false
		}
	}
	return true
}

func splitPath(s string) []string {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}
