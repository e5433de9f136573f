package xmlrpc

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/mdzio/go-logging"
)

// max. size of a valid response, if not specified: 10 MB
const responseSizeLimit = 10 * 1024 * 1024

// default User-Agent header, if not specified
const defaultUserAgent = "go-syndication/1.0"

var clnLog = logging.Get("xmlrpc-client")

// Caller is an interface for calling XML-RPC functions.
type Caller interface {
	Call(method string, params Values) (*Value, error)
}

// Client provides access to an XML-RPC server. A client is configured once
// and then used for any number of calls. At most one asynchronous send may
// be outstanding at a time; configuration must not be changed while a call
// is in flight.
type Client struct {
	// Addr is the URL of the XML-RPC endpoint.
	Addr string
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Timeout cancels an asynchronous send that takes longer. 0 disables
	// the timeout watcher.
	Timeout time.Duration
	// ResponseSizeLimit bounds the accepted response body size.
	ResponseSizeLimit int64
	// Credentials for HTTP basic authentication, optional.
	Credentials *url.Userinfo
	// Proxy overrides the proxy configuration of the environment, optional.
	Proxy *url.URL
	// HTTPClient overrides http.DefaultClient as transport. It takes
	// precedence over Proxy.
	HTTPClient *http.Client

	mtx         sync.Mutex
	inflight    *Send
	proxyClient *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	if c.Proxy == nil {
		return http.DefaultClient
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.proxyClient == nil {
		c.proxyClient = &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyURL(c.Proxy)},
		}
	}
	return c.proxyClient
}

func (c *Client) userAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return defaultUserAgent
}

// checkSendable validates the send preconditions: an endpoint must be
// configured and no asynchronous send may be outstanding.
func (c *Client) checkSendable() error {
	if c.Addr == "" {
		return errors.New("No endpoint address configured")
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.inflight != nil {
		return errors.New("A send operation is already in progress")
	}
	return nil
}

// newRequest builds the HTTP POST carrying the serialized method call.
func (c *Client) newRequest(msg *MethodCall) (*http.Request, error) {
	body, err := msg.Marshal()
	if err != nil {
		return nil, fmt.Errorf("Encoding of request for %s failed: %v", c.Addr, err)
	}
	if clnLog.TraceEnabled() {
		// attention: log message is encoded in the message charset!
		clnLog.Tracef("Request XML: %s", string(body))
	}
	req, err := http.NewRequest(http.MethodPost, c.Addr, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("Building of request for %s failed: %v", c.Addr, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset="+msg.encoding())
	req.Header.Set("User-Agent", c.userAgent())
	if c.Credentials != nil {
		pass, _ := c.Credentials.Password()
		req.SetBasicAuth(c.Credentials.Username(), pass)
	}
	return req, nil
}

// Send executes a method call synchronously. The calling goroutine blocks
// for the full network round trip.
func (c *Client) Send(msg *MethodCall) (*MethodResponse, error) {
	if err := c.checkSendable(); err != nil {
		return nil, err
	}
	clnLog.Tracef("Sending method %s to %s", msg.MethodName, c.Addr)
	req, err := c.newRequest(msg)
	if err != nil {
		return nil, err
	}
	httpResp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed on %s: %v", c.Addr, err)
	}
	defer httpResp.Body.Close()
	return c.readResponse(httpResp)
}

// readResponse checks the HTTP status and parses the body.
func (c *Client) readResponse(httpResp *http.Response) (*MethodResponse, error) {
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 299 {
		return nil, fmt.Errorf("HTTP request failed on %s with code: %s", c.Addr, httpResp.Status)
	}
	resp, err := ReadHTTPResponse(httpResp, c.ResponseSizeLimit)
	if err != nil {
		return nil, fmt.Errorf("Reading of response from %s failed: %v", c.Addr, err)
	}
	return resp, nil
}

// Call executes a remote procedure call and unwraps the single return
// value. A fault response is returned as *MethodError. Call implements
// Caller.
func (c *Client) Call(method string, params Values) (*Value, error) {
	clnLog.Tracef("Calling method %s on %s", method, c.Addr)
	msg, err := NewMethodCall(method, params...)
	if err != nil {
		return nil, err
	}
	resp, err := c.Send(msg)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	if resp.Param == nil {
		return nil, fmt.Errorf("Invalid or no parameters in response from %s", c.Addr)
	}
	return resp.Param, nil
}
