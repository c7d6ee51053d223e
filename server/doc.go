// Package server implements the request-dispatch core: a bounded-concurrency
// connection acceptor, a per-request dispatch bridge, and a single serialized
// response processor, wired together by the Server orchestrator.
//
// # Architecture
//
// Two scheduling domains cooperate. The I/O domain is fully parallel: every
// accepted connection is served by its own goroutine, bounded in count by the
// connection limit. The processing domain is a single consumer goroutine that
// drains a bounded submission channel and performs all handler, middleware,
// and catcher invocation, giving strict FIFO ordering of processed requests.
//
// A connection goroutine converts each wire request into a web.Request,
// matches it against the attached routers, and submits a process request
// carrying a per-request reply channel. Submission blocks while the channel
// is full; that suspension is the backpressure link between network accept
// rate and processing throughput.
//
//	srv := server.New("127.0.0.1:8080")
//	srv.Attach(rt)
//	if err := srv.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// Shutdown is cooperative: an interrupt stops the acceptor and the processor,
// while requests already dequeued complete and deliver their replies.
package server
