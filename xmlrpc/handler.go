package xmlrpc

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/mdzio/go-logging"
)

// max. size of a valid request, if not specified: 10 MB
const requestSizeLimit = 10 * 1024 * 1024

var svrLog = logging.Get("xmlrpc-server")

// Handler implements a http.Handler which can handle XML-RPC requests.
// Remote calls are dispatched to the registered Method's.
type Handler struct {
	RequestSizeLimit int64
	// Encoding is the character set of the response, default UTF-8.
	Encoding string
	Dispatcher
}

func (h *Handler) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	svrLog.Tracef("Request received from %s, URI %s", req.RemoteAddr, req.RequestURI)

	// read request
	limit := h.RequestSizeLimit
	if limit == 0 {
		limit = requestSizeLimit
	}
	reqLimitReader := http.MaxBytesReader(resp, req.Body, limit)
	reqBuf, err := io.ReadAll(reqLimitReader)
	if err != nil {
		svrLog.Errorf("Reading of request failed from %s: %v", req.RemoteAddr, err)
		http.Error(resp, "Reading of request failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	if svrLog.TraceEnabled() {
		svrLog.Tracef("Request XML: %s", string(reqBuf))
	}

	// decode request
	methodCall, err := ReadMethodCall(bytes.NewReader(reqBuf))
	if err != nil {
		svrLog.Errorf("Decoding of request from %s failed: %v", req.RemoteAddr, err)
		http.Error(resp, "Decoding of request failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	// dispatch call, parameters are handed over as one array value
	res, err := h.Dispatch(methodCall.MethodName, NewArray(methodCall.Params...))
	var methodResponse *MethodResponse
	if err != nil {
		svrLog.Warningf("Sending error response to %s: %v", req.RemoteAddr, err)
		methodResponse = newFaultResponseError(err)
	} else {
		methodResponse = NewMethodResponse(res)
	}

	// encode response in the configured character set
	label := h.Encoding
	if label == "" {
		label = DefaultEncoding
	}
	enc, name, err := lookupEncoding(label)
	if err != nil {
		svrLog.Errorf("Unsupported response encoding: %s", label)
		http.Error(resp, "Unsupported response encoding: "+label, http.StatusInternalServerError)
		return
	}
	var respBuf bytes.Buffer
	respWriter := enc.NewEncoder().Writer(&respBuf)
	if _, err = respWriter.Write([]byte("<?xml version=\"1.0\" encoding=\"" + name + "\"?>\n")); err == nil {
		err = methodResponse.WriteTo(respWriter)
	}
	if err != nil {
		svrLog.Errorf("Encoding of response for %s failed: %v", req.RemoteAddr, err)
		http.Error(resp, "Encoding of response failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if svrLog.TraceEnabled() {
		svrLog.Tracef("Response XML: %s", respBuf.String())
	}

	// send response
	resp.Header().Set("Content-Type", "text/xml")
	resp.Header().Set("Content-Length", strconv.Itoa(respBuf.Len()))
	_, err = resp.Write(respBuf.Bytes())
	if err != nil {
		svrLog.Warningf("Sending of response for %s failed: %v", req.RemoteAddr, err)
		return
	}
}
