package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"go.uber.org/zap"

	"sqlrunner/db"
)

// Server is a TCP server that exposes the script runner over a
// line-based JSON protocol.
type Server struct {
	listener   net.Listener
	runner     *db.Runner
	authConfig *AuthConfig
	logger     *zap.SugaredLogger
	mu         sync.Mutex
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewServer creates a server around an open runner. authConfig may be
// nil to disable authentication.
func NewServer(runner *db.Runner, authConfig *AuthConfig, logger *zap.SugaredLogger) *Server {
	return &Server{
		runner:     runner,
		authConfig: authConfig,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener

	s.logger.Infow("listening", "addr", listener.Addr().String())

	go s.acceptLoop()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				s.logger.Warnw("accept error", "error", err)
				continue
			}
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	s.logger.Infow("client connected", "remote", conn.RemoteAddr().String())

	state := &ConnectionState{}
	reader := bufio.NewReader(conn)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		// One query per line
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				s.logger.Warnw("read error", "remote", conn.RemoteAddr().String(), "error", err)
			}
			return
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}

		switch strings.ToLower(query) {
		case "quit", "exit":
			s.logger.Infow("client disconnected", "remote", conn.RemoteAddr().String())
			return
		}

		var response Response
		switch {
		case strings.HasPrefix(strings.ToUpper(query), "AUTH "):
			response = s.handleAuth(query, state)
		case s.authConfig != nil && s.authConfig.Enabled && !state.IsAuthenticated():
			response = Response{
				Success: false,
				Error:   "authentication required: send AUTH JWT <token>",
			}
		default:
			response = s.executeQuery(query)
		}

		data, err := EncodeResponse(response)
		if err != nil {
			s.logger.Warnw("encode error", "error", err)
			continue
		}
		if _, err := conn.Write(data); err != nil {
			s.logger.Warnw("write error", "remote", conn.RemoteAddr().String(), "error", err)
			return
		}
	}
}

func (s *Server) executeQuery(query string) Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := s.runner.ExecuteScript(context.Background(), query)
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	if len(results) == 0 {
		return Response{Success: false, Error: "empty query"}
	}

	if len(results) > 1 {
		sr := ScriptResponse{Statements: len(results)}
		for _, r := range results {
			if r.Err != nil {
				sr.Failed++
			}
			sr.Summaries = append(sr.Summaries, r.Summary())
		}
		data, _ := json.Marshal(sr)
		return Response{Success: sr.Failed == 0, Type: "script", Result: data}
	}

	result := results[0]
	if result.Err != nil {
		return Response{Success: false, Error: result.Err.Error()}
	}

	if result.Query != nil {
		qr := QueryResponse{
			Columns:     result.Query.Columns,
			Data:        result.Query.Data,
			RecordsRead: result.Query.RecordsRead,
			Truncated:   result.Query.Truncated,
			TimeMs:      result.Query.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(qr)
		return Response{Success: true, Type: "query", Result: data}
	}

	er := ExecResponse{
		RowsAffected: result.RowsAffected,
		TimeMs:       result.ExecutionTimeSec * 1000,
	}
	data, _ := json.Marshal(er)
	return Response{Success: true, Type: "exec", Result: data}
}
