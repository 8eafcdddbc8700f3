// Package httpez is the thin action layer over gin: one-line registration of
// endpoints with uniform binding, auth/role gating and error mapping into the
// {code,msg,data} envelope. Handlers call services; persistence and
// transactions stay behind the service boundary.
package httpez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskhub/internal/domain"
	resp "taskhub/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.PostForm 取
)

// AErr 统一错误对象（配合 resp.Error(int, msg)）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// kindCodes maps the domain error taxonomy onto envelope codes.
var kindCodes = map[domain.ErrorKind]int{
	domain.KindValidation:         resp.CodeBadRequest,
	domain.KindInvalidAssignee:    resp.CodeBadRequest,
	domain.KindUnauthorized:       resp.CodeUnauthorized,
	domain.KindNotAMember:         resp.CodeForbidden,
	domain.KindInsufficientRole:   resp.CodeForbidden,
	domain.KindOwnerOnly:          resp.CodeForbidden,
	domain.KindOwnerProtected:     resp.CodeForbidden,
	domain.KindNotFound:           resp.CodeNotFound,
	domain.KindTargetUserNotFound: resp.CodeNotFound,
	domain.KindAlreadyMember:      resp.CodeConflict,
	domain.KindEmailInUse:         resp.CodeConflict,
	domain.KindTransient:          resp.CodeUnavailable,
}

// Fail writes any error through the envelope. Domain errors keep their kind
// as the machine-readable reason; everything unclassified is treated as a
// transient store failure the caller may retry.
func Fail(c *gin.Context, err error) {
	var ae *AErr
	if errors.As(err, &ae) {
		c.JSON(http.StatusOK, resp.Error(ae.Code, ae.Error()))
		return
	}
	var de *domain.Error
	if errors.As(err, &de) {
		code, ok := kindCodes[de.Kind]
		if !ok {
			code = resp.CodeServerError
		}
		c.JSON(http.StatusOK, resp.ErrorWithReason(code, string(de.Kind), de.Message))
		return
	}
	c.JSON(http.StatusOK, resp.ErrorWithReason(resp.CodeUnavailable, string(domain.KindTransient), "temporary failure, retry"))
}

// Action 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "PATCH" | "DELETE"
	Path    string
	Binder  Binder
	Auth    bool     // 是否要求登录（检查 userId）
	Roles   []string // 限定角色（可选）
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		if a.Auth {
			uid := c.GetString("userId")
			if uid == "" {
				c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			if len(a.Roles) > 0 {
				role := c.GetString("role")
				ok := false
				for _, r := range a.Roles {
					if role == r {
						ok = true
						break
					}
				}
				if !ok {
					c.JSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
					return
				}
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone
		}
		if bindErr != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}
