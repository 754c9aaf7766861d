package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/smartruga/livestock-api/internal/config"
	"github.com/smartruga/livestock-api/internal/logs"
	"github.com/smartruga/livestock-api/internal/middleware"
	"github.com/smartruga/livestock-api/internal/model"
	"github.com/smartruga/livestock-api/internal/repository"
	"github.com/smartruga/livestock-api/internal/service"
	"github.com/smartruga/livestock-api/internal/utils"
)

const dateLayout = "2006-01-02"

// AnimalHandler manages livestock records and the audit trail their updates
// leave behind.
type AnimalHandler struct {
	Cfg     config.Config
	Animals *repository.AnimalRepo
	Species *repository.SpeciesRepo
	Alerts  *service.AlertService
}

func NewAnimalHandler(cfg config.Config, a *repository.AnimalRepo, s *repository.SpeciesRepo, al *service.AlertService) *AnimalHandler {
	return &AnimalHandler{Cfg: cfg, Animals: a, Species: s, Alerts: al}
}

type createAnimalReq struct {
	SpeciesID   uint64  `json:"speciesId"`
	TagNumber   *string `json:"tagNumber"`
	Sex         string  `json:"sex"`
	DateOfBirth *string `json:"dateOfBirth"`
}

type updateAnimalReq struct {
	SpeciesID   *uint64 `json:"speciesId"`
	TagNumber   *string `json:"tagNumber"`
	Sex         *string `json:"sex"`
	DateOfBirth *string `json:"dateOfBirth"`
	Status      *string `json:"status"`
	Notes       string  `json:"notes"`
}

type speciesPart struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type animalPart struct {
	ID           uint64      `json:"id"`
	PublicID     string      `json:"publicId"`
	QRURL        string      `json:"qrUrl"`
	TagNumber    *string     `json:"tagNumber"`
	Sex          string      `json:"sex"`
	DateOfBirth  *string     `json:"dateOfBirth"`
	Status       string      `json:"status"`
	HealthStatus string      `json:"healthStatus"`
	Species      speciesPart `json:"species"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (h *AnimalHandler) animalJSON(d repository.AnimalDetail) animalPart {
	a := d.Animal
	var dob *string
	if a.DateOfBirth != nil {
		s := a.DateOfBirth.Format(dateLayout)
		dob = &s
	}
	return animalPart{
		ID:           a.ID,
		PublicID:     a.PublicID,
		QRURL:        utils.BuildAnimalQRURL(h.Cfg.QRBaseURL, a.PublicID),
		TagNumber:    a.TagNumber,
		Sex:          string(a.Sex),
		DateOfBirth:  dob,
		Status:       string(a.Status),
		HealthStatus: string(d.HealthStatus),
		Species:      speciesPart{ID: a.SpeciesID, Name: d.SpeciesName, Code: d.SpeciesCode},
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func parseDOB(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create registers a new animal with a fresh public UUID.  The species must
// exist and the tag number, when present, must be unique within the ranch.
func (h *AnimalHandler) Create(c echo.Context) error {
	var req createAnimalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	sex := model.Sex(req.Sex)
	if !sex.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sex"})
	}
	dob, err := parseDOB(req.DateOfBirth)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dateOfBirth must be YYYY-MM-DD"})
	}
	if req.TagNumber != nil {
		trimmed := strings.TrimSpace(*req.TagNumber)
		if trimmed == "" {
			req.TagNumber = nil
		} else {
			req.TagNumber = &trimmed
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Species.GetByID(ctx, req.SpeciesID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid species"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	ranch := middleware.CurrentRanch(c)
	a := model.Animal{
		PublicID:    uuid.NewString(),
		RanchID:     ranch.ID,
		SpeciesID:   req.SpeciesID,
		TagNumber:   req.TagNumber,
		Sex:         sex,
		DateOfBirth: dob,
		Status:      model.AnimalStatusActive,
	}
	if err := h.Animals.Create(ctx, &a); err != nil {
		if errors.Is(err, repository.ErrDuplicateTag) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "tag number already exists in this ranch"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create animal failed"})
	}

	logs.Logger.WithFields(map[string]interface{}{"ranch_id": ranch.ID, "animal_id": a.ID}).Info("animal created")
	return c.JSON(http.StatusCreated, echo.Map{
		"id":       a.ID,
		"publicId": a.PublicID,
		"qrUrl":    utils.BuildAnimalQRURL(h.Cfg.QRBaseURL, a.PublicID),
	})
}

// List returns a filtered, sorted page of the ranch's animals with their
// derived health status.
func (h *AnimalHandler) List(c echo.Context) error {
	page, limit := pageParams(c)
	f := repository.AnimalFilter{
		SpeciesID: queryUint(c, "speciesId"),
		TagQuery:  strings.TrimSpace(c.QueryParam("q")),
		Page:      page,
		Limit:     limit,
	}
	if v := c.QueryParam("status"); v != "" {
		st := model.AnimalStatus(v)
		if !st.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
		}
		f.Status = st
	}
	if v := c.QueryParam("sex"); v != "" {
		sx := model.Sex(v)
		if !sx.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sex filter"})
		}
		f.Sex = sx
	}
	if v := c.QueryParam("healthStatus"); v != "" {
		hs := model.HealthStatus(v)
		if !hs.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid healthStatus filter"})
		}
		f.HealthStatus = hs
	}
	if c.QueryParam("sortBy") == "tagNumber" {
		f.SortBy = "tag_number"
	}
	f.SortDesc = c.QueryParam("sortOrder") != "asc"

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Animals.List(ctx, middleware.CurrentRanch(c).ID, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list animals failed"})
	}

	out := make([]animalPart, 0, len(items))
	for _, d := range items {
		out = append(out, h.animalJSON(d))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"animals":    out,
		"pagination": newPagination(page, limit, total),
	})
}

// Get returns one animal with species and derived health.
func (h *AnimalHandler) Get(c echo.Context) error {
	animalID := paramUint(c, "animalId")
	if animalID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid animal id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Animals.GetByID(ctx, animalID, middleware.CurrentRanch(c).ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "animal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, h.animalJSON(d))
}

// Update applies a partial update, diffing each field against the stored row
// and writing one activity event per changed field.  A status change also
// passes the state machine (terminal states are frozen and require a note)
// and writes a dedicated status event before the generic ones; a transition
// into sold or deceased raises a ranch alert after the commit.
func (h *AnimalHandler) Update(c echo.Context) error {
	animalID := paramUint(c, "animalId")
	if animalID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid animal id"})
	}

	var req updateAnimalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	ranch := middleware.CurrentRanch(c)

	d, err := h.Animals.GetByID(ctx, animalID, ranch.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "animal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	a := d.Animal

	var changes []model.FieldChange

	if req.SpeciesID != nil && *req.SpeciesID != a.SpeciesID {
		if _, err := h.Species.GetByID(ctx, *req.SpeciesID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid species"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		changes = append(changes, model.FieldChange{
			Field: "speciesId",
			Old:   fmt.Sprint(a.SpeciesID),
			New:   fmt.Sprint(*req.SpeciesID),
		})
		a.SpeciesID = *req.SpeciesID
	}

	if req.TagNumber != nil {
		newTag := strings.TrimSpace(*req.TagNumber)
		oldTag := ""
		if a.TagNumber != nil {
			oldTag = *a.TagNumber
		}
		if newTag != oldTag {
			changes = append(changes, model.FieldChange{Field: "tagNumber", Old: oldTag, New: newTag})
			if newTag == "" {
				a.TagNumber = nil
			} else {
				a.TagNumber = &newTag
			}
		}
	}

	if req.Sex != nil {
		sx := model.Sex(*req.Sex)
		if !sx.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sex"})
		}
		if sx != a.Sex {
			changes = append(changes, model.FieldChange{Field: "sex", Old: string(a.Sex), New: string(sx)})
			a.Sex = sx
		}
	}

	if req.DateOfBirth != nil {
		dob, err := parseDOB(req.DateOfBirth)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dateOfBirth must be YYYY-MM-DD"})
		}
		oldDOB, newDOB := "", ""
		if a.DateOfBirth != nil {
			oldDOB = a.DateOfBirth.Format(dateLayout)
		}
		if dob != nil {
			newDOB = dob.Format(dateLayout)
		}
		if oldDOB != newDOB {
			changes = append(changes, model.FieldChange{Field: "dateOfBirth", Old: oldDOB, New: newDOB})
			a.DateOfBirth = dob
		}
	}

	var statusEv *model.StatusEvent
	caller := middleware.CurrentUser(c)
	if req.Status != nil {
		newStatus := model.AnimalStatus(*req.Status)
		if !newStatus.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		if err := model.ValidateStatusChange(a.Status, newStatus, req.Notes); err != nil {
			switch {
			case errors.Is(err, model.ErrInvalidTransition):
				return c.JSON(http.StatusConflict, echo.Map{"error": "status transition not allowed"})
			case errors.Is(err, model.ErrStatusNoteRequired):
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "notes required for sold/deceased"})
			default:
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status change"})
			}
		}
		if newStatus != a.Status {
			var notes *string
			if n := strings.TrimSpace(req.Notes); n != "" {
				notes = &n
			}
			statusEv = &model.StatusEvent{
				AnimalID:   a.ID,
				FromStatus: a.Status,
				ToStatus:   newStatus,
				Notes:      notes,
				RecordedBy: caller.ID,
			}
			changes = append(changes, model.FieldChange{Field: "status", Old: string(a.Status), New: string(newStatus)})
			a.Status = newStatus
		}
	}

	if len(changes) == 0 {
		return c.JSON(http.StatusOK, h.animalJSON(repository.AnimalDetail{
			Animal: a, SpeciesName: d.SpeciesName, SpeciesCode: d.SpeciesCode, HealthStatus: d.HealthStatus,
		}))
	}

	events := make([]model.ActivityEvent, 0, len(changes))
	for _, ch := range changes {
		var from, to, notes *string
		if ch.Old != "" {
			v := ch.Old
			from = &v
		}
		if ch.New != "" {
			v := ch.New
			to = &v
		}
		if n := strings.TrimSpace(req.Notes); n != "" {
			notes = &n
		}
		events = append(events, model.ActivityEvent{
			RanchID:    ranch.ID,
			AnimalID:   a.ID,
			EventType:  model.EventTypeAnimalUpdate,
			Field:      ch.Field,
			FromValue:  from,
			ToValue:    to,
			Notes:      notes,
			RecordedBy: caller.ID,
		})
	}

	if err := h.Animals.ApplyUpdate(ctx, &a, statusEv, events); err != nil {
		if errors.Is(err, repository.ErrDuplicateTag) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "tag number already exists in this ranch"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update animal failed"})
	}

	if statusEv != nil {
		if alertType, ok := model.AlertTypeForStatus(a.Status); ok {
			h.Alerts.Raise(ctx, ranch, animalRef(a), alertType,
				fmt.Sprintf("Animal %s marked as %s", animalLabel(a), a.Status))
		}
	}

	fresh, err := h.Animals.GetByID(ctx, a.ID, ranch.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload animal failed"})
	}
	return c.JSON(http.StatusOK, h.animalJSON(fresh))
}

func animalRef(a model.Animal) service.AnimalRef {
	ref := service.AnimalRef{ID: a.ID, PublicID: a.PublicID}
	if a.TagNumber != nil {
		ref.TagNumber = *a.TagNumber
	}
	return ref
}

// animalLabel names an animal in alert messages, preferring the tag.
func animalLabel(a model.Animal) string {
	if a.TagNumber != nil && *a.TagNumber != "" {
		return *a.TagNumber
	}
	return a.PublicID
}
