package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Freeeeeet/timetable_builder/internal/dto"
	"github.com/Freeeeeet/timetable_builder/internal/model"
	"github.com/Freeeeeet/timetable_builder/internal/repository"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const minPasswordLength = 6

func (s *Server) login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := s.users.GetByLogin(c.Request().Context(), req.ID)
	if err != nil {
		return err
	}
	if user == nil || !checkPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "wrong login or password")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return err
	}
	s.logger.Info("User signed in", zap.Int64("user_id", user.ID))
	return c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}

func (s *Server) register(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" || len(req.Password) < minPasswordLength {
		return echo.NewHTTPError(http.StatusUnprocessableEntity,
			fmt.Sprintf("login is required and password must be at least %d characters", minPasswordLength))
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return err
	}
	user := &model.User{Login: req.ID, PasswordHash: hash, Nickname: req.ID}
	if err := s.users.Create(c.Request().Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return echo.NewHTTPError(http.StatusConflict, "login already taken")
		}
		return err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return err
	}
	s.logger.Info("User registered", zap.Int64("user_id", user.ID))
	return c.JSON(http.StatusCreated, dto.LoginResponse{Token: token})
}

func (s *Server) listTables(c echo.Context) error {
	tables, err := s.timetables.ListByUser(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	out := make([]dto.TableInfo, 0, len(tables))
	for _, t := range tables {
		out = append(out, dto.FromTimetable(t))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createTable(c echo.Context) error {
	var req dto.CreateTableRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	t := &model.Timetable{
		UserID:   currentUserID(c),
		Title:    req.Title,
		Year:     req.Year,
		Semester: req.Semester,
	}
	if err := s.timetables.Create(c.Request().Context(), t); err != nil {
		return err
	}
	s.logger.Info("Timetable created", zap.String("timetable_id", t.ID.String()), zap.Int64("user_id", t.UserID))
	return c.JSON(http.StatusCreated, dto.NewTable(*t, nil))
}

func (s *Server) getTable(c echo.Context) error {
	t, err := s.ownedTimetable(c)
	if err != nil {
		return err
	}
	lectures, err := s.timetables.ListLectures(c.Request().Context(), t.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewTable(*t, lectures))
}

func (s *Server) createLecture(c echo.Context) error {
	t, err := s.ownedTimetable(c)
	if err != nil {
		return err
	}
	draft, err := bindDraft(c)
	if err != nil {
		return err
	}

	created, err := s.timetables.CreateLecture(c.Request().Context(), t.ID, draft)
	if err != nil {
		return err
	}
	s.logger.Info("Lecture created",
		zap.String("timetable_id", t.ID.String()),
		zap.String("lecture_id", created.ID))
	return c.JSON(http.StatusCreated, dto.FromLecture(created))
}

func (s *Server) replaceLecture(c echo.Context) error {
	t, err := s.ownedTimetable(c)
	if err != nil {
		return err
	}
	draft, err := bindDraft(c)
	if err != nil {
		return err
	}

	lecture := draft.WithID(c.Param("lid"))
	err = s.timetables.ReplaceLecture(c.Request().Context(), t.ID, lecture)
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "lecture not found")
	}
	if err != nil {
		return err
	}
	s.logger.Info("Lecture replaced",
		zap.String("timetable_id", t.ID.String()),
		zap.String("lecture_id", lecture.ID))
	return c.JSON(http.StatusOK, dto.FromLecture(lecture))
}

func (s *Server) deleteLecture(c echo.Context) error {
	t, err := s.ownedTimetable(c)
	if err != nil {
		return err
	}

	lectureID := c.Param("lid")
	err = s.timetables.DeleteLecture(c.Request().Context(), t.ID, lectureID)
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "lecture not found")
	}
	if err != nil {
		return err
	}
	s.logger.Info("Lecture deleted",
		zap.String("timetable_id", t.ID.String()),
		zap.String("lecture_id", lectureID))
	return c.NoContent(http.StatusNoContent)
}

// ownedTimetable расписание из пути; чужое расписание выглядит как отсутствующее
func (s *Server) ownedTimetable(c echo.Context) (*model.Timetable, error) {
	id, err := uuid.Parse(c.Param("tid"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "timetable not found")
	}
	t, err := s.timetables.GetByID(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if t == nil || t.UserID != currentUserID(c) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "timetable not found")
	}
	return t, nil
}

// bindDraft тело лекции; сервер проверяет слоты так же, как клиент
func bindDraft(c echo.Context) (model.LectureDraft, error) {
	var body dto.Lecture
	if err := c.Bind(&body); err != nil {
		return model.LectureDraft{}, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	draft, dropped := dto.ToDraft(body)
	if dropped > 0 {
		return model.LectureDraft{}, echo.NewHTTPError(http.StatusUnprocessableEntity, "only weekdays 0-4 are supported")
	}
	if err := draft.Validate(); err != nil {
		return model.LectureDraft{}, echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return draft, nil
}
