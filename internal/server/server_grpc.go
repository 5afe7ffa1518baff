package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/izzyreal/pagehist/internal/server/grpcapi"
)

// historyGRPCServer answers gRPC calls by replaying them against the HTTP
// router, so both transports share handlers, validation and metrics.
type historyGRPCServer struct {
	grpcapi.UnimplementedHistoryServiceServer
	router http.Handler
}

func newHistoryGRPCServer(router http.Handler) *historyGRPCServer {
	return &historyGRPCServer{router: router}
}

func registerHistoryGRPCService(s *grpc.Server, impl grpcapi.HistoryServiceServer) {
	grpcapi.RegisterHistoryServiceServer(s, impl)
}

func (g *historyGRPCServer) GetServerInfo(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return g.invokeAndDecodeJSON(ctx, http.MethodGet, "/api/v1/server-info", nil)
}

func (g *historyGRPCServer) ListProjects(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return g.invokeAndDecodeJSON(ctx, http.MethodGet, "/api/v1/projects", nil)
}

func (g *historyGRPCServer) GetPageHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	project := strings.TrimSpace(req.GetFields()["project"].GetStringValue())
	if project == "" {
		return nil, status.Error(codes.InvalidArgument, "project is required")
	}
	path := "/api/v1/projects/" + url.PathEscape(project) + "/history"
	if v, ok := req.GetFields()["max"]; ok {
		max := int(v.GetNumberValue())
		if max < 0 {
			return nil, status.Error(codes.InvalidArgument, "max must be a non-negative integer")
		}
		path += "?max=" + strconv.Itoa(max)
	}
	return g.invokeAndDecodeJSON(ctx, http.MethodGet, path, nil)
}

func (g *historyGRPCServer) RecordBuild(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	body := req.AsMap()
	project, _ := body["project"].(string)
	project = strings.TrimSpace(project)
	if project == "" {
		return nil, status.Error(codes.InvalidArgument, "project is required")
	}
	delete(body, "project")
	path := "/api/v1/projects/" + url.PathEscape(project) + "/builds"
	return g.invokeAndDecodeJSON(ctx, http.MethodPost, path, body)
}

func (g *historyGRPCServer) invokeAndDecodeJSON(ctx context.Context, method, targetPath string, body map[string]any) (*structpb.Struct, error) {
	raw, err := g.invokeJSON(ctx, method, targetPath, body)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "decode JSON response: %v", err)
	}
	return out, nil
}

func (g *historyGRPCServer) invokeJSON(ctx context.Context, method, targetPath string, body map[string]any) ([]byte, error) {
	if g == nil || g.router == nil {
		return nil, status.Error(codes.Internal, "gRPC bridge is not initialized")
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "marshal request body: %v", err)
		}
		payload = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, targetPath, payload).WithContext(ctx)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	rawBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := strings.TrimSpace(string(rawBody))
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(rawBody, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, status.Errorf(httpStatusToGRPCCode(resp.StatusCode), "http %d: %s", resp.StatusCode, msg)
	}
	return rawBody, nil
}

func httpStatusToGRPCCode(statusCode int) codes.Code {
	switch statusCode {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return codes.FailedPrecondition
	case http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case http.StatusMethodNotAllowed:
		return codes.Unimplemented
	default:
		if statusCode >= 500 {
			return codes.Internal
		}
		return codes.Unknown
	}
}
