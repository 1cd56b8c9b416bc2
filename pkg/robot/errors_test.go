package robot

import (
	"errors"
	"testing"
)

func TestReportInvokesHandlersInOrder(t *testing.T) {
	errs := NewErrorChannel(discardLogger())

	var order []string
	errs.On(func(_ error, _ *Response) { order = append(order, "first") })
	errs.On(func(_ error, _ *Response) { order = append(order, "second") })

	errs.Report(errors.New("boom"), nil)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("order = %v, want [first second]", order)
	}
}

func TestReportPassesResponseContext(t *testing.T) {
	errs := NewErrorChannel(discardLogger())

	var got *Response
	errs.On(func(_ error, resp *Response) { got = resp })

	want := &Response{}
	errs.Report(errors.New("boom"), want)

	if got != want {
		t.Fatalf("handler response = %p, want %p", got, want)
	}
}

func TestPanickingHandlerDoesNotStopOthers(t *testing.T) {
	errs := NewErrorChannel(discardLogger())

	ran := false
	errs.On(func(_ error, _ *Response) { panic("broken handler") })
	errs.On(func(_ error, _ *Response) { ran = true })

	errs.Report(errors.New("boom"), nil)

	if !ran {
		t.Fatal("handler after a panicking one must still run")
	}
}

func TestReportIgnoresNilError(t *testing.T) {
	errs := NewErrorChannel(discardLogger())

	called := false
	errs.On(func(_ error, _ *Response) { called = true })

	errs.Report(nil, nil)

	if called {
		t.Fatal("nil errors must not reach handlers")
	}
}
