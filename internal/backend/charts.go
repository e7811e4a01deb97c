package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"chartviz/cli/internal/charts"
	"chartviz/cli/internal/session"
)

type objectRequest struct {
	charts.ConnectionConfig
	ObjectName string `json:"objectName"`
}

type dataRequest struct {
	charts.ConnectionConfig
	ObjectName string                `json:"objectName"`
	Parameters []charts.ParameterArg `json:"parameters"`
}

// ListObjects calls POST {objects} with the connection and returns the names of
// the views and functions visible to the backend.
func (h *HTTP) ListObjects(ctx context.Context, sess session.Session, conn charts.ConnectionConfig) ([]string, error) {
	resp, err := h.postJSON(ctx, "list objects", h.endpoints.Objects, &sess, conn)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := decodeJSON(resp.body, &names); err != nil {
		return nil, fmt.Errorf("list objects: decode response: %w", err)
	}
	return names, nil
}

// DescribeObject calls POST {object_parameters} and returns the input parameters
// of a function. A 400, or a payload whose first entry is named "error", means the
// object takes no parameters; that case wraps charts.ErrNoParameters.
func (h *HTTP) DescribeObject(ctx context.Context, sess session.Session, conn charts.ConnectionConfig, object string) ([]charts.ObjectParameter, error) {
	resp, err := h.postJSON(ctx, "describe object", h.endpoints.ObjectParameters, &sess, objectRequest{ConnectionConfig: conn, ObjectName: object})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %s", charts.ErrNoParameters, apiErr.Message)
		}
		return nil, err
	}

	var params []charts.ObjectParameter
	if err := decodeJSON(resp.body, &params); err != nil {
		return nil, fmt.Errorf("describe object: decode response: %w", err)
	}
	if len(params) > 0 && params[0].Name == "error" {
		return nil, fmt.Errorf("%w: %s", charts.ErrNoParameters, params[0].Type)
	}
	return params, nil
}

// FetchData calls POST {data} with the parameters in the given order and returns
// the row set. Numbers are kept as json.Number.
func (h *HTTP) FetchData(ctx context.Context, sess session.Session, conn charts.ConnectionConfig, object string, params []charts.ParameterArg) (charts.RowSet, error) {
	if params == nil {
		params = []charts.ParameterArg{}
	}
	req := dataRequest{ConnectionConfig: conn, ObjectName: object, Parameters: params}
	resp, err := h.postJSON(ctx, "fetch data", h.endpoints.Data, &sess, req)
	if err != nil {
		return charts.RowSet{}, err
	}
	var rs charts.RowSet
	if err := decodeJSON(resp.body, &rs); err != nil {
		return charts.RowSet{}, fmt.Errorf("fetch data: decode response: %w", err)
	}
	return rs, nil
}

var _ API = (*HTTP)(nil)
