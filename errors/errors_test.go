package errors_test

import (
	stderrors "errors"
	"testing"

	arcerr "github.com/go-arcsdk/arcsdk/errors"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	e := arcerr.New(arcerr.CodePassword, "wrong password")

	if e.Code() != arcerr.CodePassword {
		t.Fatalf("got code %v, want %v", e.Code(), arcerr.CodePassword)
	}
	if !e.IsCode(arcerr.CodePassword) {
		t.Fatal("IsCode should match its own code")
	}
	if e.File() == "" || e.Line() == 0 {
		t.Fatal("expected a captured source location")
	}
}

func TestHasCodeWalksParents(t *testing.T) {
	root := arcerr.New(arcerr.CodeIO, "seek failed")
	wrapped := arcerr.New(arcerr.CodeInternal, "extract failed", root)

	if !wrapped.HasCode(arcerr.CodeIO) {
		t.Fatal("expected HasCode to find the parent's code")
	}
	if wrapped.IsCode(arcerr.CodeIO) {
		t.Fatal("IsCode must not look at parents")
	}
}

func TestWrapPassesThroughTypedErrors(t *testing.T) {
	original := arcerr.New(arcerr.CodePassword, "bad password")
	wrapped := arcerr.Wrap(arcerr.CodeIO, "wrapping", original)

	if wrapped.Code() != arcerr.CodePassword {
		t.Fatalf("Wrap should not re-code an already typed Error, got %v", wrapped.Code())
	}
}

func TestWrapNilIsNil(t *testing.T) {
	if arcerr.Wrap(arcerr.CodeIO, "wrapping", nil) != nil {
		t.Fatal("Wrap(nil) must return nil")
	}
}

func TestUnwrapCompatWithStdErrors(t *testing.T) {
	root := arcerr.New(arcerr.CodeIO, "disk full")
	wrapped := arcerr.New(arcerr.CodeInternal, "flush failed", root)

	var target arcerr.Error
	if !stderrors.As(wrapped, &target) {
		t.Fatal("expected errors.As to find the Error interface")
	}
}

func TestIsCodeErrorHelper(t *testing.T) {
	e := arcerr.New(arcerr.CodeNotEnoughMemory, "oom")
	if !arcerr.IsCodeError(e, arcerr.CodeNotEnoughMemory) {
		t.Fatal("expected IsCodeError to report true")
	}
	if arcerr.IsCodeError(stderrors.New("plain"), arcerr.CodeNotEnoughMemory) {
		t.Fatal("plain errors never carry a CodeError")
	}
}
