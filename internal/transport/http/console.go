package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"quiz-admin/internal/app"
	"quiz-admin/internal/backend"
	"quiz-admin/internal/domain"
	"quiz-admin/internal/feedback"
)

// Console exposes one authoring session, the quiz directory and the game
// launcher over JSON, and streams changes to websocket clients.
type Console struct {
	flow     *app.AuthoringFlow
	dir      *app.Directory
	launcher *app.Launcher
	hub      *Hub
	log      *zap.Logger
}

// NewConsole subscribes the hub to flow and feedback changes. The launcher
// and directory should use the same hub as Navigator and Alerter.
func NewConsole(flow *app.AuthoringFlow, dir *app.Directory, launcher *app.Launcher, fb *feedback.Channel, hub *Hub, log *zap.Logger) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	flow.OnChange(func(s app.Snapshot) { hub.Publish(EventState, s) })
	if fb != nil {
		fb.Listen(func(m feedback.Message) { hub.Publish(EventFeedback, m) })
	}
	return &Console{flow: flow, dir: dir, launcher: launcher, hub: hub, log: log}
}

// Routes registers the console endpoints on mux.
func (c *Console) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /api/editor", c.getEditor)
	mux.HandleFunc("POST /api/editor/questions", c.addQuestion)
	mux.HandleFunc("DELETE /api/editor/questions/{id}", c.removeQuestion)
	mux.HandleFunc("PATCH /api/editor/questions/{id}", c.patchQuestion)
	mux.HandleFunc("PUT /api/editor/meta", c.putMeta)
	mux.HandleFunc("POST /api/editor/reset", c.resetEditor)
	mux.HandleFunc("POST /api/editor/submit", c.submit)
	mux.HandleFunc("GET /api/quizzes", c.listQuizzes)
	mux.HandleFunc("DELETE /api/quizzes/{id}", c.deleteQuiz)
	mux.HandleFunc("POST /api/games", c.startGame)
	mux.HandleFunc("GET /ws", NewWSHandler(c.hub, c.flow, c.log).ServeWS)
}

type questionPatch struct {
	Text      *string        `json:"text"`
	TimeLimit *int           `json:"time_limit"`
	Correct   *int           `json:"correct"`
	Answers   map[int]string `json:"answers"`
}

type quizListing struct {
	Quizzes []domain.QuizSummary `json:"quizzes"`
	Options []app.SelectorOption `json:"options"`
}

type startGameRequest struct {
	QuizID json.Number `json:"quiz_id"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Console) getEditor(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.flow.Snapshot())
}

func (c *Console) addQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := c.flow.AddQuestion()
	if err != nil {
		c.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"id": id})
}

func (c *Console) removeQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r)
	if !ok {
		return
	}
	removed, err := c.flow.RemoveQuestion(id)
	if err != nil {
		c.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (c *Console) patchQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r)
	if !ok {
		return
	}
	var patch questionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body"})
		return
	}

	err := c.flow.PatchQuestion(id, app.QuestionPatch{
		Text:      patch.Text,
		TimeLimit: patch.TimeLimit,
		Correct:   patch.Correct,
		Answers:   patch.Answers,
	})
	if err != nil {
		c.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.flow.Snapshot())
}

func (c *Console) putMeta(w http.ResponseWriter, r *http.Request) {
	var meta domain.QuizMeta
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body"})
		return
	}
	if err := c.flow.SetMeta(meta); err != nil {
		c.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.flow.Snapshot())
}

func (c *Console) resetEditor(w http.ResponseWriter, r *http.Request) {
	c.flow.Reset()
	writeJSON(w, http.StatusOK, c.flow.Snapshot())
}

// submit creates a quiz, or updates one when ?quiz_id is given.
func (c *Console) submit(w http.ResponseWriter, r *http.Request) {
	var (
		created backend.CreatedQuiz
		err     error
	)
	if raw := r.URL.Query().Get("quiz_id"); raw != "" {
		quizID, perr := app.ParseSelection(raw)
		if perr != nil {
			c.writeError(w, perr)
			return
		}
		created, err = c.flow.Update(r.Context(), quizID)
	} else {
		created, err = c.flow.Submit(r.Context())
	}
	if err != nil {
		c.writeError(w, err)
		return
	}
	c.dir.Invalidate()
	writeJSON(w, http.StatusCreated, created)
}

func (c *Console) listQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, options, err := c.dir.Refresh(r.Context())
	if err != nil {
		c.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizListing{Quizzes: quizzes, Options: options})
}

// deleteQuiz treats the request itself as the operator's confirmation.
func (c *Console) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := app.ParseSelection(r.PathValue("id"))
	if err != nil {
		c.writeError(w, err)
		return
	}
	quizzes, _, err := c.dir.Remove(r.Context(), quizID, nil)
	if err != nil {
		c.writeError(w, err)
		return
	}
	listing := quizListing{Quizzes: quizzes, Options: app.Selector(quizzes)}
	c.hub.Publish(EventQuizzes, listing)
	writeJSON(w, http.StatusOK, listing)
}

func (c *Console) startGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body"})
		return
	}
	session, err := c.launcher.Start(r.Context(), req.QuizID.String())
	if err != nil {
		c.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (c *Console) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		c.log.Warn("console request failed", zap.Error(err))
	}
	message := err.Error()
	if errors.Is(err, backend.ErrServiceUnavailable) {
		message = backend.ErrServiceUnavailable.Error()
	}
	writeJSON(w, status, errorBody{Error: message})
}

func statusFor(err error) int {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, domain.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSubmissionInFlight), errors.Is(err, app.ErrSubmissionDiscarded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoQuizSelected), errors.Is(err, domain.ErrInvalidQuizID),
		errors.Is(err, domain.ErrTimeLimitOutOfRange), errors.Is(err, domain.ErrAnswerIndexOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyQuiz), errors.Is(err, domain.ErrAnswerCount),
		errors.Is(err, domain.ErrCorrectAnswerCount), errors.Is(err, domain.ErrTitleTooLong),
		errors.Is(err, domain.ErrAnswerTooLong):
		return http.StatusUnprocessableEntity
	case errors.Is(err, backend.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func pathInt(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
