package server

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"alpaca-hub/alpaca"
)

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	fmt.Fprintln(w, s.desc.ServerName)
}

// serveManagement renders one management payload. Unlike device responses,
// the payload always nests under Value, object or not.
func (s *Server) serveManagement(w http.ResponseWriter, r *http.Request, value any) {
	params, err := alpaca.ParseParams(r.URL.RawQuery)
	if err != nil {
		http.Error(w, "malformed parameters: "+err.Error(), http.StatusBadRequest)
		return
	}
	reqTxn := alpaca.ExtractRequestTransaction(params, s.log)
	params.FinishExtraction(s.log)
	txn := alpaca.ResponseTransaction{
		ClientTransactionID: reqTxn.ClientTransactionID,
		ServerTransactionID: s.counter.Next(),
	}
	body, err := alpaca.MarshalResponse(txn, alpaca.ValueResponse{Value: value})
	if err != nil {
		s.log.Error().Err(err).Msg("management response marshal failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.sendJSON(w, body)
}

func (s *Server) handleAPIVersions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.serveManagement(w, r, alpaca.SupportedAPIVersions)
}

func (s *Server) handleDescription(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.serveManagement(w, r, s.desc)
}

func (s *Server) handleConfiguredDevices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.serveManagement(w, r, s.registry.ConfiguredDevices())
}
