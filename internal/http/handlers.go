package http

import (
	"net/http"
	"strings"

	"farmbook/internal/amqp"
	"farmbook/internal/core"
)

type todoRequest struct {
	Task string `json:"task"`
}

func (s *Server) handleTodos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		todos, err := s.store.ListTodos(r.Context())
		if err != nil {
			storeError(err).Write(w)
			return
		}
		if todos == nil {
			todos = []core.Todo{}
		}
		NewResponse().JSON(todos).Write(w)

	case http.MethodPost:
		var req todoRequest
		if err := decodeJSON(r, &req); err != nil {
			BadRequestError("invalid request body").Write(w)
			return
		}
		todo := core.Todo{Task: sanitizeInput(req.Task)}
		if err := todo.Validate(); err != nil {
			storeError(err).Write(w)
			return
		}
		created, err := s.store.CreateTodo(r.Context(), todo)
		if err != nil {
			storeError(err).Write(w)
			return
		}
		s.publishEvent(r.Context(), amqp.EntityTodo, amqp.ActionCreated, created.ID)
		NewResponse().Status(http.StatusCreated).JSON(created).Write(w)

	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleTodoByID(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodDelete); errResp != nil {
		errResp.Write(w)
		return
	}
	id := r.PathValue("id")

	if err := s.store.DeleteTodo(r.Context(), id); err != nil {
		storeError(err).Write(w)
		return
	}
	s.publishEvent(r.Context(), amqp.EntityTodo, amqp.ActionDeleted, id)
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleTodoToggle(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodPost); errResp != nil {
		errResp.Write(w)
		return
	}
	id := r.PathValue("id")

	todo, err := s.store.ToggleTodo(r.Context(), id)
	if err != nil {
		storeError(err).Write(w)
		return
	}
	s.publishEvent(r.Context(), amqp.EntityTodo, amqp.ActionUpdated, id)
	NewResponse().JSON(todo).Write(w)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodGet); errResp != nil {
		errResp.Write(w)
		return
	}

	items, err := s.store.ListNotifications(r.Context())
	if err != nil {
		storeError(err).Write(w)
		return
	}
	if items == nil {
		items = []core.Notification{}
	}
	NewResponse().JSON(items).Write(w)
}

func (s *Server) handleNotificationsSeen(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodPost); errResp != nil {
		errResp.Write(w)
		return
	}

	if err := s.store.MarkNotificationsSeen(r.Context()); err != nil {
		storeError(err).Write(w)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleNotificationByID(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodDelete); errResp != nil {
		errResp.Write(w)
		return
	}
	id := r.PathValue("id")

	if err := s.store.DeleteNotification(r.Context(), id); err != nil {
		storeError(err).Write(w)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleNotificationRead(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodPost); errResp != nil {
		errResp.Write(w)
		return
	}
	id := r.PathValue("id")

	if err := s.store.MarkNotificationRead(r.Context(), id); err != nil {
		storeError(err).Write(w)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func validateSettings(in core.Settings) *ResponseBuilder {
	if strings.TrimSpace(in.FarmName) == "" {
		return UnprocessableEntityError("farm name is required")
	}
	if len(in.Currency) != 3 {
		return UnprocessableEntityError("currency must be a three-letter ISO 4217 code")
	}
	for _, c := range append(append([]string{}, in.IncomeCategories...), in.ExpenseCategories...) {
		if strings.TrimSpace(c) == "" {
			return UnprocessableEntityError("category names cannot be empty")
		}
	}
	return nil
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := s.store.GetSettings(r.Context())
		if err != nil {
			storeError(err).Write(w)
			return
		}
		NewResponse().JSON(settings).Write(w)

	case http.MethodPut:
		var in core.Settings
		if err := decodeJSON(r, &in); err != nil {
			BadRequestError("invalid request body").Write(w)
			return
		}
		in.FarmName = sanitizeInput(in.FarmName)
		in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
		if errResp := validateSettings(in); errResp != nil {
			errResp.Write(w)
			return
		}
		if err := s.store.UpdateSettings(r.Context(), in); err != nil {
			storeError(err).Write(w)
			return
		}
		s.dashCache.Purge()
		NewResponse().JSON(in).Write(w)

	default:
		MethodNotAllowedError("GET, PUT").Write(w)
	}
}
