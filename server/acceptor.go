package server

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/funnelhttp/funnel/web"
)

// acceptLoop admits connections until the listener closes. The listener is
// permit-limited, so Accept blocks while the connection limit is saturated;
// the permit is released when the connection closes. Individual accept
// failures are logged and do not stop the loop.
func (s *Server) acceptLoop(lis net.Listener) error {
	for s.running.Load() {
		conn, err := lis.Accept()
		if err != nil {
			if !s.running.Load() || isClosed(err) {
				return nil
			}
			s.log.Warn("accept_failed", "error", err)
			continue
		}

		go s.serveConn(conn)
	}
	return nil
}

// serveConn speaks HTTP/1.1 framing over one connection, dispatching each
// parsed request through the bridge and writing the reply back. It owns the
// connection permit until it returns.
func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()

	s.metrics.ConnOpened()
	defer s.metrics.ConnClosed()

	br := bufio.NewReader(conn)
	bw := bufio.NewWriter(conn)

	for s.running.Load() {
		wireReq, err := http.ReadRequest(br)
		if err != nil {
			if !errors.Is(err, io.EOF) && !isClosed(err) {
				s.log.Debug("read_request_failed", "remote", conn.RemoteAddr().String(), "error", err)
			}
			return
		}

		req, err := s.buildRequest(wireReq, conn.RemoteAddr().String())
		var resp *web.Response
		if err != nil {
			resp = web.Text(http.StatusBadRequest, err.Error())
		} else {
			resp = s.dispatch(req)
		}

		closing := wireReq.Close || !s.running.Load()
		if err := writeResponse(bw, wireReq, resp, closing); err != nil {
			s.log.Debug("write_response_failed", "remote", conn.RemoteAddr().String(), "error", err)
			return
		}
		if closing {
			return
		}
	}
}

// buildRequest converts a parsed wire request into the internal model,
// reading the full body.
func (s *Server) buildRequest(wireReq *http.Request, remoteAddr string) (*web.Request, error) {
	body, err := io.ReadAll(wireReq.Body)
	if err != nil {
		return nil, errors.New("failed to read request body")
	}

	req := web.NewRequest(wireReq.Method, wireReq.RequestURI)
	req.RemoteAddr = remoteAddr
	for name, values := range wireReq.Header {
		req.Header[name] = values
	}
	if wireReq.Host != "" {
		req.Header.Set("Host", wireReq.Host)
	}
	if len(body) > 0 {
		req.Body = body
	}
	return req, nil
}

// writeResponse frames the response back onto the wire. A streaming body is
// written with chunked transfer encoding.
func writeResponse(w *bufio.Writer, wireReq *http.Request, resp *web.Response, closing bool) error {
	out := &http.Response{
		StatusCode: resp.Status,
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     resp.Header,
		Request:    wireReq,
		Close:      closing,
	}

	if resp.Stream != nil {
		out.Body = io.NopCloser(resp.Stream)
		out.ContentLength = -1
		out.TransferEncoding = []string{"chunked"}
	} else {
		out.Body = io.NopCloser(bytes.NewReader(resp.Body))
		out.ContentLength = int64(len(resp.Body))
	}

	if err := out.Write(w); err != nil {
		return err
	}
	return w.Flush()
}

func isClosed(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
