package xmlrpc

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// MethodError encapsulates an XML-RPC fault response.
type MethodError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (f *MethodError) Error() string {
	return fmt.Sprintf("XML-RPC fault (code: %d, message: %s)", f.Code, f.Message)
}

// MethodResponse is an XML-RPC method response envelope. After a successful
// parse either Param or Fault is populated, the protocol never carries both.
// The type itself does not enforce this.
type MethodResponse struct {
	Param *Value
	Fault *Value
}

// NewMethodResponse creates a success response wrapping one return value.
func NewMethodResponse(v *Value) *MethodResponse {
	return &MethodResponse{Param: v}
}

// NewFaultResponse creates a fault response with the canonical two-member
// fault struct.
func NewFaultResponse(code int, message string) *MethodResponse {
	return &MethodResponse{
		Fault: NewStruct(
			&Member{"faultCode", NewInteger(int32(code))},
			&Member{"faultString", NewString(message)},
		),
	}
}

// newFaultResponseError builds a fault response from an error. A MethodError
// keeps its code, any other error gets code -1.
func newFaultResponseError(err error) *MethodResponse {
	if fre, ok := err.(*MethodError); ok {
		return NewFaultResponse(fre.Code, fre.Message)
	}
	return NewFaultResponse(-1, err.Error())
}

// Err converts a populated fault struct into a MethodError. It returns nil
// when the response carries no fault.
func (r *MethodResponse) Err() error {
	if r.Fault == nil {
		return nil
	}
	q := Q(r.Fault)
	code := q.Key("faultCode").Int()
	message := q.Key("faultString").String()
	if q.Err() != nil {
		return fmt.Errorf("Invalid XML-RPC fault response: %v", q.Err())
	}
	return &MethodError{code, message}
}

// WriteTo writes the methodResponse element with a params block for a return
// value and a fault block for a fault.
func (r *MethodResponse) WriteTo(w io.Writer) error {
	sw := toXMLWriter(w)
	if _, err := sw.WriteString("<methodResponse>"); err != nil {
		return err
	}
	if r.Param != nil {
		if _, err := sw.WriteString("<params><param>"); err != nil {
			return err
		}
		if err := r.Param.WriteTo(sw); err != nil {
			return err
		}
		if _, err := sw.WriteString("</param></params>"); err != nil {
			return err
		}
	}
	if r.Fault != nil {
		if _, err := sw.WriteString("<fault>"); err != nil {
			return err
		}
		if err := r.Fault.WriteTo(sw); err != nil {
			return err
		}
		if _, err := sw.WriteString("</fault>"); err != nil {
			return err
		}
	}
	_, err := sw.WriteString("</methodResponse>")
	return err
}

// String returns the rendered XML of the method response.
func (r *MethodResponse) String() string {
	var b strings.Builder
	r.WriteTo(&b)
	return b.String()
}

// ReadMethodResponse parses a methodResponse document. The success and the
// fault branch are loaded independently, value-level failures are dropped
// silently.
func ReadMethodResponse(r io.Reader) (*MethodResponse, error) {
	root, err := readDocument(r)
	if err != nil {
		return nil, err
	}
	return loadMethodResponse(root)
}

func loadMethodResponse(root *node) (*MethodResponse, error) {
	if !strings.EqualFold(root.name, "methodResponse") {
		return nil, fmt.Errorf("Unexpected root element: %s", root.name)
	}
	resp := &MethodResponse{}
	if v, ok := parseValue(root.path("params", "param", "value")); ok {
		resp.Param = v
	}
	if fv := root.path("fault", "value"); fv != nil {
		if v, ok := parseStruct(fv); ok {
			resp.Fault = v
		}
	}
	return resp, nil
}

// ReadHTTPResponse validates and parses the body of an HTTP transport
// response. The content type must be text/xml and the content length must be
// positive, violations are reported as errors. At most limit bytes are read
// from the body.
func ReadHTTPResponse(httpResp *http.Response, limit int64) (*MethodResponse, error) {
	mediaType, _, err := mime.ParseMediaType(httpResp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("Invalid response content type: %v", err)
	}
	if !strings.EqualFold(mediaType, "text/xml") {
		return nil, fmt.Errorf("Unexpected response content type: %s", mediaType)
	}
	if httpResp.ContentLength <= 0 {
		return nil, errors.New("Response content length must be positive")
	}
	if limit <= 0 {
		limit = responseSizeLimit
	}
	return ReadMethodResponse(io.LimitReader(httpResp.Body, limit))
}
