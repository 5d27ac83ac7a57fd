package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"strings"
	"time"
)

// APIAddrEnv overrides the daemon address given by WithReqAddr.
const APIAddrEnv = "LINKFRAME_API_ADDR"

type reqOpts struct {
	addr    string
	method  string
	query   string
	body    io.Reader
	timeout time.Duration
}

type reqOpt func(opts *reqOpts)

func WithReqAddr(addr string) reqOpt {
	return func(opts *reqOpts) { opts.addr = addr }
}

func WithReqMethod(method string) reqOpt {
	return func(opts *reqOpts) { opts.method = method }
}

func WithReqQuery(s string) reqOpt {
	return func(opts *reqOpts) {
		if s == "" {
			return
		}
		if opts.query != "" {
			opts.query = fmt.Sprintf("%s&%s", opts.query, s)
		} else {
			opts.query = s
		}
	}
}

func WithReqQueryKV(k string, v any) reqOpt {
	return WithReqQuery(fmt.Sprintf("%s=%s", k, url.QueryEscape(fmt.Sprint(v))))
}

func WithReqBody(body io.Reader) reqOpt {
	return func(opts *reqOpts) { opts.body = body }
}

// WithReqJSON sends v encoded as JSON. Encoding errors surface from the request.
func WithReqJSON(v any) reqOpt {
	return func(opts *reqOpts) {
		data, err := json.Marshal(v)
		if err != nil {
			opts.body = &errReader{err: err}
			return
		}
		opts.body = bytes.NewReader(data)
	}
}

func WithReqTimeout(d time.Duration) reqOpt {
	return func(opts *reqOpts) { opts.timeout = d }
}

type errReader struct{ err error }

func (r *errReader) Read([]byte) (int, error) { return 0, r.err }

type BodyToValue[T any] func(body []byte) (*T, error)

func NewHTTPRequestMessage[T any](uri string, b2v BodyToValue[T], opts ...reqOpt) (*T, error) {
	resp, err := NewHTTPRequest(uri, opts...)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return nil, err
	}
	VerbosePrintln("")
	VerbosePrintln("%s", addPrefixToHTTPLine(string(data), "< "))

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return b2v(data)
}

func NewHTTPRequest(uri string, opts ...reqOpt) (*http.Response, error) {
	o := reqOpts{method: http.MethodGet, timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	if addr := os.Getenv(APIAddrEnv); addr != "" {
		o.addr = addr
	}
	if o.addr == "" {
		return nil, fmt.Errorf("empty api address")
	}
	if !strings.HasPrefix(o.addr, "http://") && !strings.HasPrefix(o.addr, "https://") {
		o.addr = "http://" + o.addr
	}

	return newHTTPReq(uri, &o)
}

func newHTTPReq(reqURI string, opts *reqOpts) (*http.Response, error) {
	reqURI, err := url.JoinPath(opts.addr, reqURI)
	if err != nil {
		return nil, err
	}

	reqURL := reqURI
	if opts.query != "" {
		reqURL = fmt.Sprintf("%s?%s", reqURI, opts.query)
	}

	var body []byte
	if opts.body != nil {
		body, err = io.ReadAll(opts.body)
		if err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(opts.method, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	data, err := httputil.DumpRequest(req, true)
	if err != nil {
		return nil, err
	}
	VerbosePrintln("%s", addPrefixToHTTPLine(string(data), "> "))

	client := http.Client{
		Transport: &http.Transport{DisableKeepAlives: true},
		Timeout:   opts.timeout,
	}
	return client.Do(req)
}

func addPrefixToHTTPLine(s, prefix string) string {
	lines := strings.Split(s, "\r\n")
	for k, line := range lines {
		lines[k] = prefix + line
	}
	return strings.Join(lines, "\r\n")
}
