package response

import (
	"NewTube.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
)

type Response struct {
	Code    int64       `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SendResponse pack response, HTTP状态码由错误码决定
func SendResponse(c *app.RequestContext, err error, data interface{}) {
	Err := errno.ConvertErr(err)
	if Err.HTTPStatus() >= 500 {
		hlog.Errorf("stack trace: \n%+v\n", err)
	}
	// 非errno错误(如SQL错误)只记日志, 响应中使用通用信息
	var known errno.ErrNo
	if err != nil && !errors.As(err, &known) {
		Err = errno.ServiceErr
	}
	c.JSON(Err.HTTPStatus(), Response{
		Code:    Err.ErrCode,
		Message: Err.ErrMsg,
		Data:    data,
	})
}

// BindError 参数绑定或校验失败
func BindError(c *app.RequestContext, err error) {
	hlog.Info(err)
	SendResponse(c, errno.ParamErr.WithMessage(err.Error()), nil)
}
