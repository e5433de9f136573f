package xmlrpc

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	uuid "github.com/satori/go.uuid"
)

// SendResult carries the full context of a completed asynchronous send.
type SendResult struct {
	// ID is the correlation ID of the send operation.
	ID uuid.UUID
	// Addr is the endpoint address the call was sent to.
	Addr string
	// Message is the method call that was sent.
	Message *MethodCall
	// Response is the parsed method response. It is nil when Err is set.
	Response *MethodResponse
	// Err is set when the transport or the response parsing failed.
	Err error
	// Token is the caller-supplied correlation token.
	Token interface{}
}

// states of an asynchronous send
const (
	sendPending int32 = iota
	sendCompleted
	sendTimedOut
	sendCancelled
)

// Send is the per-call context of one asynchronous send. It is owned jointly
// by the initiating call, the completion goroutine and the timeout watcher.
// The state field transitions exactly once out of pending, which resolves
// the race between completion, timeout and cancellation.
type Send struct {
	client *Client
	id     uuid.UUID
	msg    *MethodCall
	token  interface{}
	abort  context.CancelFunc
	timer  *time.Timer
	state  int32
	done   chan *SendResult
}

// ID returns the correlation ID of the send operation.
func (s *Send) ID() uuid.UUID {
	return s.id
}

// Done returns the completion channel. It receives exactly one result when
// the call completes, successfully or with a transport error. A timed out or
// cancelled send never delivers a result; callers that need to observe a
// timeout must track elapsed time themselves.
func (s *Send) Done() <-chan *SendResult {
	return s.done
}

// Cancel aborts the pending transport call. It is idempotent and has no
// effect once the send has completed or timed out.
func (s *Send) Cancel() {
	if !atomic.CompareAndSwapInt32(&s.state, sendPending, sendCancelled) {
		return
	}
	clnLog.Debugf("Send %s cancelled", s.id)
	s.abort()
	s.stopTimer()
	s.client.clearInflight(s)
}

// Cancelled reports whether the send was cancelled.
func (s *Send) Cancelled() bool {
	return atomic.LoadInt32(&s.state) == sendCancelled
}

// TimedOut reports whether the send was aborted by the timeout watcher.
func (s *Send) TimedOut() bool {
	return atomic.LoadInt32(&s.state) == sendTimedOut
}

func (s *Send) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
	}
}

// timeout is invoked by the timeout watcher racing the completion callback.
func (s *Send) timeout() {
	if !atomic.CompareAndSwapInt32(&s.state, sendPending, sendTimedOut) {
		return
	}
	clnLog.Warningf("Send %s to %s timed out", s.id, s.client.Addr)
	s.abort()
	s.client.clearInflight(s)
}

// complete is invoked by the completion goroutine. The result is dropped
// silently when the timeout watcher or a cancellation won the race.
func (s *Send) complete(resp *MethodResponse, err error) {
	if !atomic.CompareAndSwapInt32(&s.state, sendPending, sendCompleted) {
		return
	}
	s.stopTimer()
	s.client.clearInflight(s)
	if err != nil {
		clnLog.Debugf("Send %s failed: %v", s.id, err)
	} else {
		clnLog.Tracef("Send %s completed", s.id)
	}
	s.done <- &SendResult{
		ID:       s.id,
		Addr:     s.client.Addr,
		Message:  s.msg,
		Response: resp,
		Err:      err,
		Token:    s.token,
	}
}

// SendAsync starts an asynchronous send and returns its per-call context.
// Only one send may be outstanding per client; starting a second one is a
// usage error. The token is handed back unchanged in the result.
func (c *Client) SendAsync(msg *MethodCall, token interface{}) (*Send, error) {
	if err := c.checkSendable(); err != nil {
		return nil, err
	}
	req, err := c.newRequest(msg)
	if err != nil {
		return nil, err
	}
	ctx, abort := context.WithCancel(context.Background())
	s := &Send{
		client: c,
		id:     uuid.NewV4(),
		msg:    msg,
		token:  token,
		abort:  abort,
		done:   make(chan *SendResult, 1),
	}
	if !c.setInflight(s) {
		abort()
		return nil, errors.New("A send operation is already in progress")
	}
	clnLog.Debugf("Sending method %s to %s asynchronously, send %s", msg.MethodName, c.Addr, s.id)
	if c.Timeout > 0 {
		s.timer = time.AfterFunc(c.Timeout, s.timeout)
	}
	go func() {
		httpResp, err := c.httpClient().Do(req.WithContext(ctx))
		if err != nil {
			s.complete(nil, fmt.Errorf("HTTP request failed on %s: %v", c.Addr, err))
			return
		}
		defer httpResp.Body.Close()
		resp, err := c.readResponse(httpResp)
		s.complete(resp, err)
	}()
	return s, nil
}

// SendAsyncCancel cancels the outstanding asynchronous send, if any.
func (c *Client) SendAsyncCancel() {
	c.mtx.Lock()
	s := c.inflight
	c.mtx.Unlock()
	if s != nil {
		s.Cancel()
	}
}

// setInflight registers the send as the single outstanding operation.
func (c *Client) setInflight(s *Send) bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.inflight != nil {
		return false
	}
	c.inflight = s
	return true
}

// clearInflight resets the in-progress state, but only for the send that
// owns it.
func (c *Client) clearInflight(s *Send) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.inflight == s {
		c.inflight = nil
	}
}
