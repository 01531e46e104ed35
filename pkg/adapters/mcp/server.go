package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/internal/logging"
	"github.com/aretw0/mosaic/pkg/avatar"
	"github.com/aretw0/mosaic/pkg/dictionary"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/input"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// PaletteURI exposes the configured palette as a resource.
const PaletteURI = "mosaic://palette"

// DeterminantResponse aligns with the HTTP schema.
type DeterminantResponse struct {
	Value       string `json:"value,omitempty" jsonschema_description:"The determinant in lowest terms"`
	ErrorReason string `json:"error_reason,omitempty" jsonschema_description:"Why the determinant could not be computed"`
}

// Service defines what the MCP server needs from *mosaic.Service.
type Service interface {
	Avatar(ctx context.Context, identifier string, format domain.Format) (*mosaic.AvatarResult, error)
	Define(ctx context.Context, word string) (*dictionary.Definition, error)
	Determinant(ctx context.Context, source string) (string, error)
	Generator() *avatar.Generator
}

// Server wraps the service and exposes it as an MCP Server.
type Server struct {
	svc       Service
	sanitizer input.Sanitizer
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxInputSize limits tool string arguments to n bytes.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.sanitizer = input.New(n)
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(svc Service, opts ...Option) *Server {
	s := &Server{
		svc:    svc,
		logger: logging.NewNop(),
		mcpServer: server.NewMCPServer("mosaic-mcp", strings.TrimSpace(mosaic.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: generate_avatar
	s.mcpServer.AddTool(mcp.NewTool("generate_avatar",
		mcp.WithDescription("Render the deterministic avatar for an identifier. The same identifier always yields the same image."),
		mcp.WithString("identifier", mcp.Required(), mcp.Description("Any string; only the first ten characters shape the image")),
		mcp.WithString("format", mcp.Description("Image container (default png)"), mcp.Enum("png", "gif", "bmp", "tiff")),
	), s.handleGenerateAvatar)

	// TOOL: define_word
	s.mcpServer.AddTool(mcp.NewTool("define_word",
		mcp.WithDescription("Look a word up in the Merriam-Webster collegiate dictionary and return markdown."),
		mcp.WithString("word", mcp.Required(), mcp.Description("The word to define")),
	), s.handleDefineWord)

	// TOOL: matrix_determinant
	s.mcpServer.AddTool(mcp.NewTool("matrix_determinant",
		mcp.WithDescription("Compute the exact determinant of a rational matrix literal such as [[1, 2], [3, 4]]."),
		mcp.WithString("matrix", mcp.Required(), mcp.Description("Matrix literal; entries may be integers, fractions or decimals")),
		mcp.WithOutputSchema[DeterminantResponse](),
	), mcp.NewStructuredToolHandler(s.handleDeterminant))
}

func (s *Server) handleGenerateAvatar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identifier, err := request.RequireString("identifier")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if identifier, err = s.sanitizer.Identifier(identifier); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("input rejected: %v", err)), nil
	}
	var format domain.Format
	if name := request.GetString("format", ""); name != "" {
		if format, err = domain.ParseFormat(name); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", name)), nil
		}
	}

	res, err := s.svc.Avatar(ctx, identifier, format)
	if err != nil {
		s.logger.Error("MCP generate_avatar failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("avatar failed: %v", err)), nil
	}

	text := fmt.Sprintf("Avatar for seed %d (%s, %d bytes)", res.Seed, res.Format, len(res.Data))
	return mcp.NewToolResultImage(text, base64.StdEncoding.EncodeToString(res.Data), res.ContentType()), nil
}

func (s *Server) handleDefineWord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := request.RequireString("word")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if word, err = s.sanitizer.Word(word); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("input rejected: %v", err)), nil
	}

	def, err := s.svc.Define(ctx, word)
	if err != nil {
		if !errors.Is(err, dictionary.ErrNoAPIKey) {
			s.logger.Warn("MCP define_word failed", "word", word, "error", err)
		}
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", dictionary.Kind(err), err)), nil
	}
	return mcp.NewToolResultText(def.Markdown()), nil
}

func (s *Server) handleDeterminant(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DeterminantResponse, error) {
	source, _ := args["matrix"].(string)
	source, err := s.sanitizer.Sanitize(source)
	if err != nil {
		return DeterminantResponse{ErrorReason: fmt.Sprintf("input rejected: %v", err)}, nil
	}
	value, err := s.svc.Determinant(ctx, source)
	if err != nil {
		return DeterminantResponse{ErrorReason: err.Error()}, nil
	}
	return DeterminantResponse{Value: value}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: mosaic://palette
	s.mcpServer.AddResource(mcp.NewResource(PaletteURI, "Avatar Palette",
		mcp.WithResourceDescription("Colors in palette order; index 0 is the lowest noise band"),
		mcp.WithMIMEType("application/json"),
	), s.readPalette)
}

func (s *Server) readPalette(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.svc.Generator().Config().Palette.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to encode palette: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      PaletteURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
