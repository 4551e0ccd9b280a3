package signal

import "github.com/dkeye/Interview/internal/protocol"

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	_ = conn.TrySend(protocol.MustEncode(protocol.Pong, nil))
}
