/*
Package link implements the session that owns the single serial link to the peer.

A Session is a small state machine (Disconnected -> Connecting -> Connected, and Closed
after teardown). It checks host permissions, picks the first known peer whose name
contains the configured target, dials it with the Serial Port Profile service identifier
and writes newline terminated lines to it.

Delivery is best effort and at most once: a failed send is reported, the connection is
dropped, and nothing is retried until the caller runs EnsureConnected again.

EnsureConnected, Send and Close are serialized by one mutex; callers on a UI-bound
goroutine should run them elsewhere since discovery and dialing block.

# Usage

	s := link.New(transport, ports.AllowAll, link.WithTargetName("raspberry"))
	defer s.Close()

	if err := s.EnsureConnected(ctx); err != nil {
		log.Fatal(err)
	}
	if err := s.Send(ctx, []byte("... --- ...")); err != nil {
		log.Print(err)
	}
*/
package link
