package requester

import (
	"time"

	"github.com/dslink-go/dslink/pkg/log"
	"github.com/dslink-go/dslink/pkg/wire"
)

func (r *Requester) event(dir log.Direction, layer log.Layer, cat log.Category) log.Event {
	return log.Event{
		Timestamp: time.Now(),
		SessionID: r.sessionID,
		Direction: dir,
		Layer:     layer,
		Category:  cat,
		LinkName:  r.config.LinkName,
	}
}

// logRequest logs an outgoing request event.
func (r *Requester) logRequest(req *wire.Request) {
	if r.protocolLogger == nil {
		return
	}

	method := req.Method
	ev := r.event(log.DirectionOut, log.LayerLink, log.CategoryMessage)
	ev.Message = &log.MessageEvent{
		Type:      log.MessageTypeRequest,
		RequestID: req.RequestID,
		Method:    &method,
		Path:      req.Path,
		Payload:   requestPayload(req),
	}
	r.protocolLogger.Log(ev)
}

func requestPayload(req *wire.Request) any {
	switch req.Method {
	case wire.MethodSet:
		return req.Value.Any()
	case wire.MethodInvoke:
		if req.Params.IsNull() {
			return nil
		}
		return req.Params.Any()
	default:
		return nil
	}
}

// logResponse logs an incoming response event.
func (r *Requester) logResponse(resp *wire.Response, latency *time.Duration) {
	if r.protocolLogger == nil {
		return
	}

	ev := r.event(log.DirectionIn, log.LayerLink, log.CategoryMessage)
	ev.Message = &log.MessageEvent{
		Type:      log.MessageTypeResponse,
		RequestID: resp.RequestID,
		Stream:    resp.Stream,
		Latency:   latency,
	}
	if resp.HasError() {
		ev.Message.ErrorType = resp.Error.Type
	}
	if len(resp.Updates) > 0 {
		ev.Message.Payload = resp.Updates
	}
	r.protocolLogger.Log(ev)
}

// logUpdate logs an incoming subscription update event.
func (r *Requester) logUpdate(update *wire.SubscriptionUpdate) {
	if r.protocolLogger == nil {
		return
	}

	ev := r.event(log.DirectionIn, log.LayerSubscription, log.CategoryMessage)
	ev.Message = &log.MessageEvent{
		Type:      log.MessageTypeUpdate,
		RequestID: wire.SubscriptionRequestID,
		Path:      update.Path,
		Payload:   update.Value,
	}
	r.protocolLogger.Log(ev)
}

// logState logs a session, stream or subscription state change.
func (r *Requester) logState(entity log.StateEntity, oldState, newState, path, reason string) {
	if r.protocolLogger == nil {
		return
	}

	layer := log.LayerLink
	if entity == log.StateEntitySubscription {
		layer = log.LayerSubscription
	}
	ev := r.event(log.DirectionOut, layer, log.CategoryState)
	ev.StateChange = &log.StateChangeEvent{
		Entity:   entity,
		OldState: oldState,
		NewState: newState,
		Path:     path,
		Reason:   reason,
	}
	r.protocolLogger.Log(ev)
}

// logError logs an error event.
func (r *Requester) logError(layer log.Layer, msg string, requestID uint32, context string) {
	if r.protocolLogger == nil {
		return
	}

	ev := r.event(log.DirectionIn, layer, log.CategoryError)
	ev.Error = &log.ErrorEventData{
		Layer:     layer,
		Message:   msg,
		RequestID: requestID,
		Context:   context,
	}
	r.protocolLogger.Log(ev)
}
