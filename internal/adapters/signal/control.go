package signal

import "github.com/dkeye/Presence/internal/domain"

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendJSON(conn, domain.EventPong, nil)
}
