package examples

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dslink-go/dslink/pkg/requester"
	"github.com/dslink-go/dslink/pkg/subscription"
	"github.com/dslink-go/dslink/pkg/value"
)

// Paths below the responder link used by the demo.
const (
	SettablePath = "/values/settable"
	ValuesPath   = "/values"
	DynamicPath  = "/values/dynamic"
	ActionPath   = "/values/action"
	MissingPath  = "/non_existent_node"
)

// SettableValue is the value written to the settable node.
const SettableValue = "Hello world!"

var errMissingSucceeded = errors.New("invoke on missing node succeeded")

// DualRequester holds the handles of the requests issued by
// RunDualRequester.
type DualRequester struct {
	Set         *requester.Call[*requester.SetResponse]
	List        *requester.ListStream
	Dynamic     *subscription.Subscription
	Invoke      *requester.Call[*requester.InvokeResponse]
	InvokeError *requester.Call[*requester.InvokeResponse]
}

// RunDualRequester issues the demo requests against the responder link at
// linkPath and logs what comes back.
func RunDualRequester(r *requester.Requester, linkPath string, logger *slog.Logger) *DualRequester {
	if logger == nil {
		logger = slog.Default()
	}

	d := &DualRequester{}
	d.Set = setNodeValue(r, linkPath, logger)
	d.List = listValuesChildren(r, linkPath, logger)
	d.Dynamic = subscribeDynamic(r, linkPath, logger)
	d.Invoke = invokeAction(r, linkPath, logger)
	d.InvokeError = invokeMissing(r, linkPath, logger)
	return d
}

// Wait blocks until the set and both invocations completed.
func (d *DualRequester) Wait(ctx context.Context) error {
	if _, err := d.Set.Wait(ctx); err != nil {
		return err
	}
	if _, err := d.Invoke.Wait(ctx); err != nil {
		return err
	}

	// The missing node is expected to fail.
	_, err := d.InvokeError.Wait(ctx)
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case err == nil:
		return errMissingSucceeded
	}
	return nil
}

// Stop closes the list stream and drops the subscription.
func (d *DualRequester) Stop(r *requester.Requester) error {
	r.Unsubscribe(d.Dynamic.Path())
	return d.List.Close()
}

func setNodeValue(r *requester.Requester, linkPath string, logger *slog.Logger) *requester.Call[*requester.SetResponse] {
	return r.Set(linkPath+SettablePath, value.String(SettableValue), func(res *requester.SetResponse) {
		if res.Err != nil {
			logger.Warn("set failed", "path", res.Path, "error", res.Err)
			return
		}
		logger.Info("set the new value on the responder", "path", res.Path)
	})
}

func listValuesChildren(r *requester.Requester, linkPath string, logger *slog.Logger) *requester.ListStream {
	return r.List(linkPath+ValuesPath, func(res *requester.ListResponse) {
		if res.Err != nil {
			logger.Warn("list failed", "path", res.Path, "error", res.Err)
			return
		}
		for _, u := range res.Updates {
			change := "added"
			if u.Removed {
				change = "removed"
			}
			logger.Info("child node "+change, "path", u.Path)
		}
	})
}

func subscribeDynamic(r *requester.Requester, linkPath string, logger *slog.Logger) *subscription.Subscription {
	return r.Subscribe(linkPath+DynamicPath, func(u subscription.Update) {
		n, err := u.Value.AsNumber()
		if err != nil {
			logger.Warn("dynamic value is not a number", "value", u.Value.String())
			return
		}
		logger.Info("received new dynamic value", "value", int64(n), "seq", u.Sequence)
	})
}

func invokeAction(r *requester.Requester, linkPath string, logger *slog.Logger) *requester.Call[*requester.InvokeResponse] {
	return r.Invoke(linkPath+ActionPath, value.Null(), func(res *requester.InvokeResponse) {
		if res.HasError() {
			logger.Warn("invoke failed", "path", res.Path, "error", res.Err)
			return
		}
		logger.Info("invoked the responder action", "path", res.Path)
		if res.Table.Len() > 0 && len(res.Table.Rows[0]) > 0 {
			logger.Info("received response", "value", res.Table.Rows[0][0].String())
		}
	})
}

func invokeMissing(r *requester.Requester, linkPath string, logger *slog.Logger) *requester.Call[*requester.InvokeResponse] {
	return r.Invoke(linkPath+MissingPath, value.Null(), func(res *requester.InvokeResponse) {
		ie := res.InvokeError()
		if ie == nil {
			return
		}
		logger.Info("invocation error (as desired)", "msg", ie.Message, "detail", ie.Detail)
	})
}
