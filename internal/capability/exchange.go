package capability

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"gosock/internal/session"
)

// Exchange is the client side of a request/reply conversation.  It
// sends Message once, or each line of Stdin when Message is empty, and
// writes the reply to each send to Stdout.
//
// Every reply is a single receive, so a reply the peer split across
// several writes may come back in pieces.
type Exchange struct {
	Message string
}

func (x *Exchange) Handle(ctx context.Context, sess *session.Session) error {
	if x.Message != "" {
		_, err := x.roundTrip(ctx, sess, x.Message)
		return err
	}

	sc := bufio.NewScanner(sess.Stdin)
	for sc.Scan() {
		open, err := x.roundTrip(ctx, sess, sc.Text()+"\n")
		if err != nil || !open {
			return err
		}
	}
	return sc.Err()
}

// roundTrip reports false once the peer has closed.
func (x *Exchange) roundTrip(ctx context.Context, sess *session.Session, msg string) (bool, error) {
	n, err := sess.Send(ctx, msg)
	if err != nil {
		return false, fmt.Errorf("send: %w", err)
	}
	sess.Logger.Debug("sent %d bytes", n)

	reply, err := sess.Receive(ctx)
	if err != nil {
		return false, fmt.Errorf("receive: %w", err)
	}
	if reply == "" {
		sess.Logger.Verbose("peer closed the connection")
		return false, nil
	}
	if _, err := io.WriteString(sess.Stdout, reply); err != nil {
		return false, err
	}
	return true, nil
}
