package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bornholm/go-x/slogx"
	"github.com/bornholm/taskmanager/internal/core/model"
	"github.com/pkg/errors"
)

func getQueryInt(query url.Values, name string) (*int, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse query parameter '%s'", name)
	}

	v := int(value)

	return &v, nil
}

func getQueryBool(query url.Values, name string) (*bool, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse query parameter '%s'", name)
	}

	return &value, nil
}

func getTaskID(r *http.Request) (model.TaskID, error) {
	id, err := model.ParseTaskID(r.PathValue("taskID"))
	if err != nil {
		return 0, errors.Wrapf(err, "could not parse task id '%s'", r.PathValue("taskID"))
	}

	return id, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, res any) {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", " ")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := encoder.Encode(res); err != nil {
		slog.ErrorContext(r.Context(), "could not encode response", slogx.Error(err))
	}
}
