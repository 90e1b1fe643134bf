package cmd

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/gorilla/mux"
	"github.com/jsphweid/quantdex/chart"
	"github.com/jsphweid/quantdex/constants"
	"github.com/jsphweid/quantdex/model"
	"github.com/jsphweid/quantdex/quantizer"
	"github.com/jsphweid/quantdex/session"
	"github.com/jsphweid/quantdex/store"
	"github.com/jsphweid/quantdex/target"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves quantizer sessions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := LoadServeRegistry()
		if err != nil {
			return err
		}
		addr := constants.GetAddr()
		slog.Info("serving", "addr", addr)
		return http.ListenAndServe(addr, NewRouter(reg))
	},
}

func LoadServeRegistry() (*session.Registry, error) {
	st, err := store.FromEnv()
	if err != nil {
		return nil, err
	}
	return session.NewRegistry(st, constants.SaveDebounceMillis*time.Millisecond), nil
}

type server struct {
	reg *session.Registry
}

func NewRouter(reg *session.Registry) http.Handler {
	s := &server{reg: reg}
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/sessions", s.handleCreate).Methods("POST")
	router.HandleFunc("/sessions", s.handleList).Methods("GET")
	router.HandleFunc("/sessions/{id}", s.handleGet).Methods("GET")
	router.HandleFunc("/sessions/{id}", s.handleDelete).Methods("DELETE")
	router.HandleFunc("/sessions/{id}/params", s.handleParams).Methods("PATCH")
	router.HandleFunc("/sessions/{id}/notes", s.handleNotes).Methods("POST")
	router.HandleFunc("/sessions/{id}/clear", s.handleClear).Methods("POST")
	router.HandleFunc("/sessions/{id}/quantize", s.handleQuantize).Methods("POST")
	router.HandleFunc("/sessions/{id}/chart.png", s.handleChart).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
	})
	return c.Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("could not write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch ftag.Get(err) {
	case ftag.NotFound:
		status = http.StatusNotFound
	case ftag.InvalidArgument:
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "err", err)
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fault.Wrap(err, fmsg.With("could not decode request body"), ftag.With(ftag.InvalidArgument))
	}
	return nil
}

func (s *server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.reg.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

// patchParams overlays the non-nil fields of patch onto p.
func patchParams(p model.Params, patch model.ParamsPatch) model.Params {
	if patch.PitchCount != nil {
		p.PitchCount = *patch.PitchCount
	}
	if patch.Window != nil {
		p.Window = *patch.Window
	}
	if patch.Offset != nil {
		p.Offset = *patch.Offset
	}
	if patch.OctaveBias != nil {
		p.OctaveBias = *patch.OctaveBias
	}
	if patch.DurationBias != nil {
		p.DurationBias = *patch.DurationBias
	}
	if patch.IntervalMode != nil {
		p.IntervalMode = model.ParseIntervalMode(*patch.IntervalMode)
	}
	if patch.SuppressRepeats != nil {
		p.SuppressRepeats = *patch.SuppressRepeats
	}
	return p
}

func validatePatch(p model.ParamsPatch) error {
	if p.IntervalMode == nil {
		return nil
	}
	switch *p.IntervalMode {
	case "none", "last", "most":
		return nil
	}
	return fault.Wrap(fault.New("interval_mode must be none, last or most"), ftag.With(ftag.InvalidArgument))
}

func stateView(id string, q *quantizer.Quantizer) model.StateView {
	p := q.Params()
	return model.StateView{
		Id: id,
		Params: model.ParamsView{
			PitchCount:      p.PitchCount,
			Window:          p.Window,
			Offset:          p.Offset,
			OctaveBias:      p.OctaveBias,
			DurationBias:    p.DurationBias,
			IntervalMode:    p.IntervalMode.String(),
			SuppressRepeats: p.SuppressRepeats,
		},
		Weights:    q.Weights(),
		Ages:       q.Ages(),
		TargetMask: uint16(q.TargetMask()),
		Distances:  q.Distances(),
		Fill:       q.Fill(),
	}
}

func (s *server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var patch model.ParamsPatch
	if r.ContentLength != 0 {
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, err)
			return
		}
	}
	if err := validatePatch(patch); err != nil {
		writeError(w, err)
		return
	}

	sess, err := s.reg.Create(patchParams(quantizer.DefaultParams(), patch))
	if err != nil {
		writeError(w, err)
		return
	}
	var view model.StateView
	sess.View(func(q *quantizer.Quantizer) {
		view = stateView(sess.Id, q)
	})
	writeJSON(w, http.StatusCreated, view)
}

// handleList reports the sessions held in memory, not everything stored.
func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	ids := s.reg.Live()
	sort.Strings(ids)
	writeJSON(w, http.StatusOK, model.SessionsResponse{Ids: ids})
}

func (s *server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var view model.StateView
	sess.View(func(q *quantizer.Quantizer) {
		view = stateView(sess.Id, q)
	})
	writeJSON(w, http.StatusOK, view)
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.reg.Delete(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleParams(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var patch model.ParamsPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	if err := validatePatch(patch); err != nil {
		writeError(w, err)
		return
	}
	var view model.StateView
	sess.Update(func(q *quantizer.Quantizer) {
		q.SetParams(patchParams(q.Params(), patch))
		view = stateView(sess.Id, q)
	})
	writeJSON(w, http.StatusOK, view)
}

func (s *server) handleNotes(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body model.NotesRequestBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	var view model.StateView
	sess.Update(func(q *quantizer.Quantizer) {
		for _, n := range body.Notes {
			q.Append(n.Volts, n.Duration)
		}
		view = stateView(sess.Id, q)
	})
	writeJSON(w, http.StatusOK, view)
}

func (s *server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body model.ClearRequestBody
	if r.ContentLength != 0 {
		if err := decodeBody(r, &body); err != nil {
			writeError(w, err)
			return
		}
	}
	prime := constants.DefaultPrime
	if body.Prime != nil {
		prime = *body.Prime
	}
	var view model.StateView
	sess.Update(func(q *quantizer.Quantizer) {
		q.ClearWithPriming(prime)
		view = stateView(sess.Id, q)
	})
	writeJSON(w, http.StatusOK, view)
}

func (s *server) handleQuantize(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body model.QuantizeRequestBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	res := model.QuantizeResponse{Volts: make([]float64, len(body.Volts))}
	sess.View(func(q *quantizer.Quantizer) {
		for i, v := range body.Volts {
			res.Volts[i] = q.Quantize(v)
		}
	})
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleChart(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var weights [12]float64
	var ages [12]int
	var mask target.Mask
	sess.View(func(q *quantizer.Quantizer) {
		weights, ages, mask = q.Weights(), q.Ages(), q.TargetMask()
	})

	var buf bytes.Buffer
	if err := chart.Draw(&buf, weights, ages, mask); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("could not write chart", "err", err)
	}
}
