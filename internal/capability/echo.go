package capability

import (
	"context"
	"fmt"
	"io"

	"gosock/internal/session"
)

// Echo answers every receive.  With Reply empty the received text is
// sent back unchanged; otherwise Reply is sent instead.  Received text
// is copied to the session's Stdout.
type Echo struct {
	Reply string
}

func (e *Echo) Handle(ctx context.Context, sess *session.Session) error {
	peer := sess.Sock.RemoteAddr()
	for {
		text, err := sess.Receive(ctx)
		if err != nil {
			return fmt.Errorf("receive from %s: %w", peer, err)
		}
		if text == "" {
			sess.Logger.Verbose("%s closed", peer)
			return nil
		}
		sess.Logger.Debug("%s -> %q", peer, text)

		if _, err := io.WriteString(sess.Stdout, text); err != nil {
			return err
		}

		reply := e.Reply
		if reply == "" {
			reply = text
		}
		if _, err := sess.Send(ctx, reply); err != nil {
			return fmt.Errorf("send to %s: %w", peer, err)
		}
	}
}
