// Package xmlrpc implements the XML-RPC 1.0 wire protocol: a recursive
// value model with the fixed scalar set of the protocol, method call and
// method response envelopes, an HTTP client with synchronous and
// asynchronous sending, and an http.Handler with a method dispatcher for
// the server side.
//
// Values are modelled as a closed tagged union (Value with a Kind selector)
// instead of one type per variant, so the mutual recursion between the
// value dispatcher and the composite values stays inside a single parse
// function. Equality and ordering of values are defined on the rendered
// XML form.
package xmlrpc
