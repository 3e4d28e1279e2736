// Package serve exposes a scanner.Core over newline-delimited JSON.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/praetorian-inc/bylight/pkg/scanner"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server manages the streaming matcher
type Server struct {
	core    *scanner.Core
	encoder *json.Encoder
	decoder *json.Decoder
	logger  *slog.Logger
}

// NewServer creates a new streaming server
func NewServer(core *scanner.Core, in io.Reader, out io.Writer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		core:    core,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
		logger:  logger,
	}
}

// Run starts the server main loop
func (s *Server) Run(ctx context.Context) error {
	s.sendReady()

	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(req) {
						return nil
					}
				default:
					if err == io.EOF {
						return nil
					}
					s.logger.Error("decoding request", "error", err)
					s.sendError("decode", "", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(req Request) bool {
	s.logger.Debug("request", "type", req.Type, "id", req.ID)

	switch req.Type {
	case TypeMatch:
		s.handleMatch(req)
	case TypeHighlight:
		s.handleHighlight(req)
	case TypeRender:
		s.handleRender(req)
	case TypeSets:
		s.handleSets(req)
	case TypeClose:
		return true
	default:
		s.sendError("unknown", req.ID, "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	s.send(Response{Success: true, Type: "ready"}, ReadyData{Version: Version})
}

func (s *Server) handleMatch(req Request) {
	var p MatchPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		s.sendError(req.Type, req.ID, err.Error())
		return
	}
	s.send(Response{Success: true, Type: req.Type, ID: req.ID}, s.core.Match(p.Text, p.Patterns))
}

func (s *Server) handleHighlight(req Request) {
	var p HighlightPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		s.sendError(req.Type, req.ID, err.Error())
		return
	}
	format, err := scanner.ParseFormat(p.Format)
	if err != nil {
		s.sendError(req.Type, req.ID, err.Error())
		return
	}
	s.send(Response{Success: true, Type: req.Type, ID: req.ID}, s.core.Highlight(p.Text, p.Groups, format))
}

func (s *Server) handleRender(req Request) {
	var p RenderPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		s.sendError(req.Type, req.ID, err.Error())
		return
	}
	result, err := s.core.Render(p.HTML, p.Fragment, p.Assets)
	if err != nil {
		s.sendError(req.Type, req.ID, err.Error())
		return
	}
	s.send(Response{Success: true, Type: req.Type, ID: req.ID}, result)
}

func (s *Server) handleSets(req Request) {
	sets, err := scanner.GetBuiltinSets()
	if err != nil {
		s.sendError(req.Type, req.ID, err.Error())
		return
	}
	s.send(Response{Success: true, Type: req.Type, ID: req.ID}, sets)
}

// send encodes data into resp and writes it.
func (s *Server) send(resp Response, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		s.sendError(resp.Type, resp.ID, fmt.Sprintf("encoding response: %v", err))
		return
	}
	resp.Data = raw
	if err := s.encoder.Encode(resp); err != nil {
		s.logger.Error("writing response", "type", resp.Type, "error", err)
	}
}

func (s *Server) sendError(reqType, id, msg string) {
	if err := s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		ID:      id,
		Error:   msg,
	}); err != nil {
		s.logger.Error("writing error response", "type", reqType, "error", err)
	}
}
