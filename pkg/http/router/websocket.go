package router

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"

	http_server "github.com/bcmobility/roadnet/pkg/http/server"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"go.uber.org/zap"
)

// handleWebsocket serves the batch progress feed. Clients connect, get
// registered with the hub and receive progress events for every running
// batch; they are not expected to send anything, so the per-connection
// goroutine only drains control frames to notice the peer going away.
func (api *API) handleWebsocket(ctx context.Context, config http_server.Config,
	errChan chan error,
) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", config.WebsocketPort))
	if err != nil {
		errChan <- err
		return
	}
	api.log.Info(fmt.Sprintf("batch progress websocket feed run on port %d", config.WebsocketPort))

	go func() {
		<-ctx.Done()
		api.hub.RemoveAllUsers()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			errChan <- err
			return
		}
		go api.handle(conn)
	}
}

func (api *API) handle(conn net.Conn) {
	br := bufio.NewReader(conn)

	rw := struct {
		io.Reader
		io.Writer
	}{br, conn}

	hs, err := ws.Upgrade(rw)
	if err != nil {
		api.log.Info("upgrade error", zap.Error(err), zap.String("connection", nameConn(conn)))
		conn.Close()
		return
	}

	api.log.Info("established websocket connection", zap.String("connection", nameConn(conn)),
		zap.String("protocol", hs.Protocol))

	user := api.hub.Register(conn)

	for {
		h, r, err := wsutil.NextReader(conn, ws.StateServerSide)
		if err != nil {
			api.hub.Remove(user)
			conn.Close()
			return
		}
		if h.OpCode.IsControl() {
			if err := wsutil.ControlFrameHandler(conn, ws.StateServerSide)(h, r); err != nil {
				api.hub.Remove(user)
				conn.Close()
				return
			}
			continue
		}
		// data frames are unexpected on a feed, discard them
		if _, err := io.Copy(io.Discard, r); err != nil {
			api.hub.Remove(user)
			conn.Close()
			return
		}
	}
}

func nameConn(conn net.Conn) string {
	return conn.LocalAddr().String() + " > " + conn.RemoteAddr().String()
}
