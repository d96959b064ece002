package hmr

import (
	"context"
	"sync"

	"github.com/prajithkb/metro/internal/core/domain"
	"github.com/prajithkb/metro/internal/core/ports"
	"github.com/prajithkb/metro/internal/engine/delta"
)

// messageWriter is the slice of the websocket connection the client needs.
// *websocket.Conn satisfies it.
type messageWriter interface {
	WriteJSON(v any) error
}

// client drives one live-update connection: Connecting, then the initial
// baseline build, then Idle alternating with Building as change
// notifications arrive.
type client struct {
	conn   messageWriter
	calc   *delta.Calculator
	idFor  ports.ModuleIDFactory
	logger ports.Logger

	// notify has capacity one: any number of change signals arriving during
	// a build collapse into a single follow-up delta, which picks up
	// everything pending at that point.
	notify chan struct{}

	writeMu sync.Mutex
}

func newClient(conn messageWriter, calc *delta.Calculator, idFor ports.ModuleIDFactory, logger ports.Logger) *client {
	return &client{
		conn:   conn,
		calc:   calc,
		idFor:  idFor,
		logger: logger,
		notify: make(chan struct{}, 1),
	}
}

// baseline establishes the initial graph for this connection. No messages
// are sent; the client already holds the bundle and only needs deltas.
func (c *client) baseline(ctx context.Context) error {
	_, err := c.calc.GetDelta(ctx, true)
	return err
}

// notifyChange schedules a future delta push. It never blocks; a signal
// arriving while one is already pending is redundant.
func (c *client) notifyChange() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// run subscribes to change notifications and pushes an update envelope per
// signal until the context is canceled.
func (c *client) run(ctx context.Context) {
	unsubscribe := c.calc.Subscribe(c.notifyChange)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.notify:
			if err := c.pushUpdate(ctx); err != nil {
				// Write failure: the connection is gone.
				return
			}
		}
	}
}

// pushUpdate sends the invariant three-message envelope: update-start, then
// update or error, then update-done. A build failure is normalized and sent
// in the middle slot; it never closes the connection.
func (c *client) pushUpdate(ctx context.Context) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.WriteJSON(newUpdateStart()); err != nil {
		return err
	}

	d, err := c.calc.GetDelta(ctx, false)

	var middle message
	if err != nil {
		c.logger.Error(err)
		middle = newError(formatError(err))
	} else {
		middle = newUpdate(c.buildUpdate(d))
	}
	if err := c.conn.WriteJSON(middle); err != nil {
		return err
	}

	return c.conn.WriteJSON(newUpdateDone())
}

// buildUpdate wraps every modified module with this connection's id
// assignment. The annotation maps are always present, empty when no module
// carries them.
func (c *client) buildUpdate(d domain.Delta) updateBody {
	body := updateBody{
		Modules:           make([]modulePayload, 0, len(d.Modified)),
		SourceURLs:        map[string]string{},
		SourceMappingURLs: map[string]string{},
	}

	for _, m := range d.Modified {
		id := c.idFor(m.Path)
		body.Modules = append(body.Modules, modulePayload{
			ID:   id,
			Code: WrapModule(m, c.idFor),
		})
		if m.Output.SourceURL != "" {
			body.SourceURLs[id] = m.Output.SourceURL
		}
		if m.Output.SourceMappingURL != "" {
			body.SourceMappingURLs[id] = m.Output.SourceMappingURL
		}
	}

	return body
}
