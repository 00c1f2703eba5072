package errno

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

const (
	SuccessCode                = 0
	ServiceErrCode             = 10001
	ParamErrCode               = 10002
	AuthorizationFailedErrCode = 10003
	NotFoundErrCode            = 10004
	ConflictErrCode            = 10005
	SignatureErrCode           = 10006
	TooManyRequestsErrCode     = 10007
	ExternalServiceErrCode     = 10008
)

type ErrNo struct {
	ErrCode int64
	ErrMsg  string
}

func (e ErrNo) Error() string {
	return fmt.Sprintf("err_code=%d, err_msg=%s", e.ErrCode, e.ErrMsg)
}

func NewErrNo(code int64, msg string) ErrNo {
	return ErrNo{code, msg}
}

func (e ErrNo) WithMessage(msg string) ErrNo {
	e.ErrMsg = msg
	return e
}

// HTTPStatus 错误码对应的HTTP状态码
func (e ErrNo) HTTPStatus() int {
	switch e.ErrCode {
	case SuccessCode:
		return http.StatusOK
	case ParamErrCode:
		return http.StatusBadRequest
	case AuthorizationFailedErrCode, SignatureErrCode:
		return http.StatusUnauthorized
	case NotFoundErrCode:
		return http.StatusNotFound
	case ConflictErrCode:
		return http.StatusConflict
	case TooManyRequestsErrCode:
		return http.StatusTooManyRequests
	case ExternalServiceErrCode:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

var (
	Success                = NewErrNo(SuccessCode, "Success")
	ServiceErr             = NewErrNo(ServiceErrCode, "Internal server error")
	ParamErr               = NewErrNo(ParamErrCode, "Wrong Parameter has been given")
	AuthorizationFailedErr = NewErrNo(AuthorizationFailedErrCode, "Authorization failed")
	NotFoundErr            = NewErrNo(NotFoundErrCode, "Resource not found")
	ConflictErr            = NewErrNo(ConflictErrCode, "Resource already exists")
	SignatureErr           = NewErrNo(SignatureErrCode, "Signature verification failed")
	TooManyRequestsErr     = NewErrNo(TooManyRequestsErrCode, "Too many requests")
	ExternalServiceErr     = NewErrNo(ExternalServiceErrCode, "External service failed")
)

// ConvertErr convert error to Errno
func ConvertErr(err error) ErrNo {
	if err == nil {
		return Success
	}
	Err := ErrNo{}
	if errors.As(err, &Err) {
		return Err
	}
	s := ServiceErr
	s.ErrMsg = err.Error()
	return s
}

// Is 判断err是否为指定错误码
func Is(err error, target ErrNo) bool {
	Err := ErrNo{}
	if !errors.As(err, &Err) {
		return false
	}
	return Err.ErrCode == target.ErrCode
}
