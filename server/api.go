package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"alpaca-hub/alpaca"
)

// deviceHandler adapts one HTTP verb of the wildcard device route to the
// dispatcher. The verb is fixed at registration: it selects the action
// table entry and the device lock mode.
func (s *Server) deviceHandler(m alpaca.Method) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		s.serveDevice(w, r, ps, m)
	}
}

func (s *Server) serveDevice(w http.ResponseWriter, r *http.Request, ps httprouter.Params, m alpaca.Method) {
	dt, ok := alpaca.ParseDeviceTypePath(ps.ByName("device_type"))
	if !ok {
		http.Error(w, "unknown device type "+ps.ByName("device_type"), http.StatusNotFound)
		return
	}
	number, err := strconv.Atoi(ps.ByName("device_number"))
	if err != nil || number < 0 {
		http.Error(w, "invalid device number "+ps.ByName("device_number"), http.StatusBadRequest)
		return
	}
	action := ps.ByName("action")

	params, err := decodeParams(r)
	if err != nil {
		http.Error(w, "malformed parameters: "+err.Error(), http.StatusBadRequest)
		return
	}
	reqTxn := alpaca.ExtractRequestTransaction(params, s.log)
	txn := alpaca.ResponseTransaction{
		ClientTransactionID: reqTxn.ClientTransactionID,
		ServerTransactionID: s.counter.Next(),
	}
	s.log.Debug().
		Stringer("type", dt).Int("number", number).
		Str("action", action).Stringer("method", m).
		Uint32("client_id", reqTxn.ClientID).
		Uint32("txn", txn.ServerTransactionID).
		Msg("device request")

	// The binary image encoding is only served when the client asked for it
	// by media type; everything else, errors included, stays JSON.
	binary := dt == alpaca.DeviceTypeCamera && m == alpaca.MethodGet &&
		(action == "imagearray" || action == "imagearrayvariant") &&
		alpaca.AcceptsImageBytes(r.Header)

	value, err := s.dispatcher.Dispatch(r.Context(), dt, number, action, m, params)
	if err != nil {
		s.sendDispatchError(w, txn, err, binary)
		return
	}
	if binary {
		img, ok := value.(*alpaca.ImageArray)
		if !ok {
			http.Error(w, "internal error: image action produced no image", http.StatusInternalServerError)
			return
		}
		s.sendImageBytes(w, alpaca.EncodeImageBytes(img, txn))
		return
	}
	body, err := alpaca.MarshalResponse(txn, value)
	if err != nil {
		s.log.Error().Err(err).Str("action", action).Msg("response marshal failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.sendJSON(w, body)
}

// sendDispatchError maps a dispatch failure onto the wire. Device-reported
// ASCOM errors ride in a 200 envelope (or an imagebytes error frame);
// routing and parameter errors become plain-text HTTP errors.
func (s *Server) sendDispatchError(w http.ResponseWriter, txn alpaca.ResponseTransaction, err error, binary bool) {
	var devErr *alpaca.Error
	if errors.As(err, &devErr) {
		if binary {
			s.sendImageBytes(w, alpaca.EncodeImageBytesError(devErr, txn))
			return
		}
		body, merr := alpaca.MarshalErrorResponse(txn, devErr)
		if merr != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		s.sendJSON(w, body)
		return
	}
	var (
		unknownDevice *alpaca.UnknownDeviceError
		unknownAction *alpaca.UnknownActionError
		missingParam  *alpaca.MissingParamError
		badParam      *alpaca.BadParamError
	)
	switch {
	case errors.As(err, &unknownDevice):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &unknownAction), errors.As(err, &missingParam), errors.As(err, &badParam):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.log.Error().Err(err).Msg("dispatch failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) sendJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		s.log.Warn().Err(err).Msg("response write failed")
	}
}

func (s *Server) sendImageBytes(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", alpaca.MediaTypeImageBytes)
	if _, err := w.Write(body); err != nil {
		s.log.Warn().Err(err).Msg("response write failed")
	}
}

// decodeParams reads the request parameters: the query string of a GET, the
// urlencoded body of a PUT.
func decodeParams(r *http.Request) (*alpaca.Params, error) {
	if r.Method == http.MethodPut {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		return alpaca.ParseParams(string(body))
	}
	return alpaca.ParseParams(r.URL.RawQuery)
}
