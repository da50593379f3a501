package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fr4nk3nst1ner/jobdesk/internal/board"
	"github.com/fr4nk3nst1ner/jobdesk/internal/client"
	"github.com/fr4nk3nst1ner/jobdesk/internal/form"
	"github.com/fr4nk3nst1ner/jobdesk/internal/listing"
	"github.com/fr4nk3nst1ner/jobdesk/internal/models"
	"github.com/fr4nk3nst1ner/jobdesk/internal/ui"
)

const msgDeleted = "Job deleted successfully!"

func errorText(err error) string {
	return client.Describe(err)
}

func statusFor(err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Kind == client.KindHTTP && apiErr.StatusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func (s *Server) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", errorView{
		Title:   "Error",
		Flash:   flashFrom(c.Request.URL.Query()),
		Message: message,
	})
}

func jobID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *Server) handleIndex(c *gin.Context) {
	ctx := c.Request.Context()
	q := listing.QueryFromValues(c.Request.URL.Query())

	b := board.New(s.api, s.boardOpts)
	b.Store().SetQuery(q)
	// The filter bar degrades to "All" when options are unavailable
	_ = b.LoadFilterOptions(ctx)

	status := http.StatusOK
	if err := b.Refresh(ctx); err != nil {
		status = statusFor(err)
	}

	view := newListView(b.Snapshot(), b.FilterOptions(), s.now())
	view.Flash = flashFrom(c.Request.URL.Query())
	c.HTML(status, "list.html", view)
}

func (s *Server) handleShow(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		s.renderError(c, http.StatusNotFound, "Resource not found")
		return
	}

	job, err := s.api.Get(c.Request.Context(), id)
	if err != nil {
		s.logger.Warn("failed to load job", zap.Int64("id", id), zap.Error(err))
		s.renderError(c, statusFor(err), errorText(err))
		return
	}

	c.HTML(http.StatusOK, "detail.html", detailView{
		Title: job.Title,
		Flash: flashFrom(c.Request.URL.Query()),
		Card:  newCardView(*job, s.now(), true),
	})
}

func (s *Server) handleNew(c *gin.Context) {
	c.HTML(http.StatusOK, "form.html", newFormView(form.New()))
}

func (s *Server) handleEdit(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		s.renderError(c, http.StatusNotFound, "Resource not found")
		return
	}
	job, err := s.api.Get(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, statusFor(err), errorText(err))
		return
	}
	c.HTML(http.StatusOK, "form.html", newFormView(form.ForJob(*job)))
}

func (s *Server) handleCreate(c *gin.Context) {
	s.save(c, form.New())
}

func (s *Server) handleUpdate(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		s.renderError(c, http.StatusNotFound, "Resource not found")
		return
	}
	s.save(c, form.ForJob(models.Job{ID: id}))
}

// save binds the posted fields onto f and submits it. Failures re-render the
// form with its values and errors; success redirects with a flash message.
func (s *Server) save(c *gin.Context, f *form.Form) {
	if err := c.ShouldBind(&f.Values); err != nil {
		s.renderError(c, http.StatusBadRequest, "Error setting up request")
		return
	}

	err := f.Submit(c.Request.Context(), func(ctx context.Context, input models.JobInput) error {
		if f.Editing() {
			_, err := s.api.Update(ctx, f.JobID(), input)
			return err
		}
		_, err := s.api.Create(ctx, input)
		return err
	})

	switch {
	case errors.Is(err, form.ErrInvalid):
		c.HTML(http.StatusUnprocessableEntity, "form.html", newFormView(f))
		return
	case err != nil:
		s.logger.Warn("failed to save job", zap.Int64("id", f.JobID()), zap.Error(err))
		view := newFormView(f)
		view.Flash = &flash{Text: errorText(err), Kind: string(board.ToastError)}
		c.HTML(http.StatusUnprocessableEntity, "form.html", view)
		return
	}

	if f.Editing() {
		c.Redirect(http.StatusSeeOther, withFlash("/jobs/"+strconv.FormatInt(f.JobID(), 10), f.Success, board.ToastSuccess))
		return
	}
	c.Redirect(http.StatusSeeOther, withFlash("/", f.Success, board.ToastSuccess))
}

func (s *Server) handleConfirmDelete(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		s.renderError(c, http.StatusNotFound, "Resource not found")
		return
	}
	job, err := s.api.Get(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, statusFor(err), errorText(err))
		return
	}

	confirm := ui.NewDeleteConfirmation(*job)
	confirm.Request()
	c.HTML(http.StatusOK, "confirm.html", confirmView{
		Title:  "Delete Job",
		Card:   newCardView(*job, s.now(), false),
		Prompt: confirm.Prompt(),
	})
}

func (s *Server) handleDelete(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		s.renderError(c, http.StatusNotFound, "Resource not found")
		return
	}

	path := "/jobs/" + strconv.FormatInt(id, 10)
	if _, err := s.api.Delete(c.Request.Context(), id); err != nil {
		s.logger.Warn("failed to delete job", zap.Int64("id", id), zap.Error(err))
		if statusFor(err) == http.StatusNotFound {
			path = "/"
		}
		c.Redirect(http.StatusSeeOther, withFlash(path, errorText(err), board.ToastError))
		return
	}
	s.logger.Info("deleted job", zap.Int64("id", id))
	c.Redirect(http.StatusSeeOther, withFlash("/", msgDeleted, board.ToastDelete))
}
