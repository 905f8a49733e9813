package signal

import (
	"github.com/dkeye/Presence/internal/core"
	"github.com/dkeye/Presence/internal/domain"
)

func (ctl *SignalWSController) handleWhoAmI(sid core.SessionID, conn *WsSignalConn) {
	resp, ok := ctl.Orch.WhoAmI(sid)
	if !ok {
		return
	}
	ctl.sendJSON(conn, domain.EventWhoAmI, resp)
}
