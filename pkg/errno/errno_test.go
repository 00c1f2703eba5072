package errno

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
)

func TestConvertErr(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		if got := ConvertErr(nil); got.ErrCode != SuccessCode {
			t.Fatalf("ConvertErr(nil) = %d, want %d", got.ErrCode, SuccessCode)
		}
	})

	t.Run("WrappedErrNo", func(t *testing.T) {
		err := errors.Wrap(NotFoundErr.WithMessage("video not found"), "GetVideo failed")
		got := ConvertErr(err)
		if got.ErrCode != NotFoundErrCode {
			t.Fatalf("code = %d, want %d", got.ErrCode, NotFoundErrCode)
		}
		if got.ErrMsg != "video not found" {
			t.Errorf("msg = %q", got.ErrMsg)
		}
	})

	t.Run("PlainError", func(t *testing.T) {
		got := ConvertErr(errors.New("boom"))
		if got.ErrCode != ServiceErrCode || got.ErrMsg != "boom" {
			t.Fatalf("got %+v", got)
		}
	})
}

func TestIs(t *testing.T) {
	err := errors.WithMessage(ConflictErr, "AddVideo")
	if !Is(err, ConflictErr) {
		t.Error("expected conflict")
	}
	if Is(err, NotFoundErr) {
		t.Error("conflict must not match not found")
	}
	if Is(errors.New("x"), NotFoundErr) {
		t.Error("plain error must not match")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[ErrNo]int{
		Success:                http.StatusOK,
		ParamErr:               http.StatusBadRequest,
		AuthorizationFailedErr: http.StatusUnauthorized,
		SignatureErr:           http.StatusUnauthorized,
		NotFoundErr:            http.StatusNotFound,
		ConflictErr:            http.StatusConflict,
		TooManyRequestsErr:     http.StatusTooManyRequests,
		ExternalServiceErr:     http.StatusBadGateway,
		ServiceErr:             http.StatusInternalServerError,
	}
	for e, want := range cases {
		if got := e.HTTPStatus(); got != want {
			t.Errorf("%s: HTTPStatus() = %d, want %d", e.ErrMsg, got, want)
		}
	}
}
