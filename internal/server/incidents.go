package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"opsboard/internal/media"
	"opsboard/pkg/types"
)

// maxUploadBytes bounds the multipart parse; the pipeline applies the real
// per-type limits afterwards.
const maxUploadBytes = 64 << 20

type incidentForm struct {
	Title          string   `form:"title"`
	Description    string   `form:"description"`
	Area           string   `form:"area"`
	Classification []string `form:"classification"`
	Priority       string   `form:"priority"`
	Room           string   `form:"room"`
}

func (s *Service) handleCreateIncident(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	var input incidentForm
	if err := decoder.Decode(&input, r.Form); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form fields")
		return
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Area = strings.TrimSpace(input.Area)
	input.Room = strings.TrimSpace(input.Room)

	if input.Title == "" || input.Area == "" || input.Room == "" {
		s.respondError(w, http.StatusBadRequest, "title, area and room are required")
		return
	}

	priority := types.IncidentPriority(input.Priority)
	if !priority.Valid() {
		s.respondError(w, http.StatusBadRequest, "priority must be one of critica, alta, media, baja")
		return
	}

	incident := &types.Incident{
		Title:          input.Title,
		Description:    strings.TrimSpace(input.Description),
		Area:           input.Area,
		Classification: input.Classification,
		Priority:       priority,
		Room:           input.Room,
		Reporter:       userID,
	}

	uploaded, err := s.processAndUpload(r, "media", input.Title)
	if err != nil {
		status := http.StatusInternalServerError
		if isMediaValidationError(err) {
			status = http.StatusBadRequest
		}
		s.respondError(w, status, err.Error())
		return
	}
	if uploaded != nil {
		incident.MediaURL = &uploaded.URL
		incident.MediaPath = &uploaded.Path
	}

	if err := s.incidents.CreateIncident(r.Context(), incident); err != nil {
		s.logger.WithError(err).Error("failed to create incident")
		s.respondError(w, http.StatusInternalServerError, "failed to create incident")
		return
	}

	s.respondJSON(w, http.StatusCreated, incident)
}

func (s *Service) handleListIncidents(w http.ResponseWriter, r *http.Request) {
	filter := types.IncidentFilter{}

	query := r.URL.Query()
	if status := query.Get("status"); status != "" {
		filter.Status = types.IncidentStatus(status)
		if !filter.Status.Valid() {
			s.respondError(w, http.StatusBadRequest, "status must be one of pending, approved, rejected")
			return
		}
	}
	if priority := query.Get("priority"); priority != "" {
		filter.Priority = types.IncidentPriority(priority)
		if !filter.Priority.Valid() {
			s.respondError(w, http.StatusBadRequest, "priority must be one of critica, alta, media, baja")
			return
		}
	}
	filter.Area = query.Get("area")
	filter.Room = query.Get("room")

	incidents, err := s.incidents.IncidentsByFilter(r.Context(), filter)
	if err != nil {
		s.logger.WithError(err).Error("failed to list incidents")
		s.respondError(w, http.StatusInternalServerError, "failed to list incidents")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"incidents": incidents})
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// handleUpdateIncidentStatus is the moderation step: approve or reject a
// pending report. Moderator roles only.
func (s *Service) handleUpdateIncidentStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	profile, err := s.profiles.Profile(r.Context(), userID)
	if err != nil || !profile.Role.CanModerate() {
		s.respondError(w, http.StatusForbidden, "moderator role required")
		return
	}

	var input statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := types.IncidentStatus(input.Status)
	if status != types.IncidentStatusApproved && status != types.IncidentStatusRejected {
		s.respondError(w, http.StatusBadRequest, "status must be approved or rejected")
		return
	}

	incidentID := r.PathValue("incidentID")

	if err := s.incidents.UpdateIncidentStatus(r.Context(), incidentID, status); err != nil {
		if errors.Is(err, types.ErrIncidentNotFound) {
			s.respondError(w, http.StatusNotFound, "incident not found")
			return
		}
		s.logger.WithError(err).Error("failed to update incident status")
		s.respondError(w, http.StatusInternalServerError, "failed to update incident status")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"id": incidentID, "status": string(status)})
}

// handleDeleteIncident removes a report along with its stored media object,
// so the bucket does not accumulate orphans. Moderator roles only.
func (s *Service) handleDeleteIncident(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	profile, err := s.profiles.Profile(r.Context(), userID)
	if err != nil || !profile.Role.CanModerate() {
		s.respondError(w, http.StatusForbidden, "moderator role required")
		return
	}

	incidentID := r.PathValue("incidentID")

	incident, err := s.incidents.Incident(r.Context(), incidentID)
	if err != nil {
		if errors.Is(err, types.ErrIncidentNotFound) {
			s.respondError(w, http.StatusNotFound, "incident not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch incident for deletion")
		s.respondError(w, http.StatusInternalServerError, "failed to delete incident")
		return
	}

	if incident.MediaPath != nil {
		// A failed object delete is logged but does not block the row delete;
		// the media record only goes once the object is gone.
		if err := s.uploader.Delete(r.Context(), *incident.MediaPath); err != nil {
			s.logger.WithError(err).WithField("path", *incident.MediaPath).Warn("failed to delete media object")
		} else if err := s.media.DeleteMediaByPath(r.Context(), *incident.MediaPath); err != nil {
			s.logger.WithError(err).Warn("failed to delete media record")
		}
	}

	if err := s.incidents.DeleteIncident(r.Context(), incidentID); err != nil {
		if errors.Is(err, types.ErrIncidentNotFound) {
			s.respondError(w, http.StatusNotFound, "incident not found")
			return
		}
		s.logger.WithError(err).Error("failed to delete incident")
		s.respondError(w, http.StatusInternalServerError, "failed to delete incident")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"id": incidentID, "status": "deleted"})
}

// processAndUpload runs an optional multipart file through the media pipeline
// and the storage uploader, recording the result. Returns nil, nil when the
// field is absent.
func (s *Service) processAndUpload(r *http.Request, field, caption string) (*types.UploadedMedia, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, errors.New("invalid file upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("failed to read uploaded file")
	}

	out, err := media.Process(media.Input{
		Data:        data,
		MimeType:    header.Header.Get("Content-Type"),
		Caption:     caption,
		SubmittedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	uploaded, err := s.uploader.Upload(r.Context(), out.Path, out.Data, out.MimeType)
	if err != nil {
		s.logger.WithError(err).Error("storage upload failed")
		return nil, errors.New("storage upload failed")
	}

	if err := s.media.CreateMedia(r.Context(), uploaded); err != nil {
		s.logger.WithError(err).Error("failed to record uploaded media")
		return nil, errors.New("failed to record uploaded media")
	}

	return uploaded, nil
}

func isMediaValidationError(err error) bool {
	return errors.Is(err, types.ErrImageTooLarge) ||
		errors.Is(err, types.ErrVideoTooLarge) ||
		errors.Is(err, types.ErrUnsupportedMedia)
}
