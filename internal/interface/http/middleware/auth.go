package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/response"
)

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 验证Token有效性
// 3. 检查Token黑名单
// 4. 将馆员信息注入Context
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewAuthMiddleware 创建认证中间件
// sessionStore允许为nil(未部署Redis时跳过黑名单检查)
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RequireAuth 要求馆员登录
// 使用方式：
//
//	authorized := r.Group("/api/v1")
//	authorized.Use(authMiddleware.RequireAuth())
//	authorized.POST("/loans", handler.IssueBook)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从Header提取Token
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorWithCode(c, 40100, "请先登录")
			c.Abort()
			return
		}

		// 2. 解析Token格式
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.ErrorWithCode(c, 40101, "Token格式错误")
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 3. 检查Token是否在黑名单中（馆员已登出或Token被强制失效）
		if m.sessionStore != nil {
			isBlacklisted, err := m.sessionStore.IsInBlacklist(c.Request.Context(), tokenString)
			if err != nil {
				response.ErrorWithCode(c, 50000, "验证Token失败")
				c.Abort()
				return
			}
			if isBlacklisted {
				response.ErrorWithCode(c, 40102, "Token已失效，请重新登录")
				c.Abort()
				return
			}
		}

		// 4. 验证Token并解析Claims
		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err) // 自动处理ErrTokenExpired、ErrInvalidToken
			c.Abort()
			return
		}

		// 5. 将馆员信息注入到Context（后续Handler可以使用）
		// 学习要点：使用Context传递请求级别的数据
		c.Set("employee_id", claims.EmployeeID)
		c.Set("emp_no", claims.EmpNo)
		c.Set("name", claims.Name)
		c.Set("access_token", tokenString)

		// 6. 继续处理请求
		c.Next()
	}
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetEmployeeID 从Context获取当前登录馆员ID
func GetEmployeeID(c *gin.Context) uint {
	if employeeID, exists := c.Get("employee_id"); exists {
		if id, ok := employeeID.(uint); ok {
			return id
		}
	}
	return 0
}

// GetEmpNo 从Context获取当前登录馆员工号
func GetEmpNo(c *gin.Context) string {
	if empNo, exists := c.Get("emp_no"); exists {
		if no, ok := empNo.(string); ok {
			return no
		}
	}
	return ""
}

// GetAccessToken 从Context获取当前请求的Access Token(登出时用)
func GetAccessToken(c *gin.Context) string {
	if token, exists := c.Get("access_token"); exists {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}

// MustGetEmpNo 从Context获取馆员工号（如果不存在则panic）
// 说明：用于已经通过RequireAuth中间件的Handler
func MustGetEmpNo(c *gin.Context) string {
	empNo := GetEmpNo(c)
	if empNo == "" {
		panic("emp_no not found in context")
	}
	return empNo
}

// MustGetEmployeeID 从Context获取馆员ID（如果不存在则panic）
func MustGetEmployeeID(c *gin.Context) uint {
	employeeID := GetEmployeeID(c)
	if employeeID == 0 {
		panic("employee_id not found in context")
	}
	return employeeID
}
