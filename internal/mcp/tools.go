package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winpos/internal/positioner"
)

func (s *Server) handlePositionWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args PositionWindowInput) (*mcpsdk.CallToolResult, PositionOutput, error) {
	return s.position(positioner.OpPositionWindow, positioner.Args{
		Title: args.Title,
		X:     args.X, Y: args.Y, Width: args.Width, Height: args.Height,
	})
}

func (s *Server) handlePositionByClass(_ context.Context, _ *mcpsdk.CallToolRequest, args PositionByClassInput) (*mcpsdk.CallToolResult, PositionOutput, error) {
	return s.position(positioner.OpPositionWindowByClass, positioner.Args{
		Class: args.WMClass,
		X:     args.X, Y: args.Y, Width: args.Width, Height: args.Height,
	})
}

func (s *Server) handlePositionByClassAndTitle(_ context.Context, _ *mcpsdk.CallToolRequest, args PositionByClassAndTitleInput) (*mcpsdk.CallToolResult, PositionOutput, error) {
	return s.position(positioner.OpPositionWindowByClassAndTitle, positioner.Args{
		Class: args.WMClass,
		Title: args.TitlePattern,
		X:     args.X, Y: args.Y, Width: args.Width, Height: args.Height,
	})
}

func (s *Server) handleActiveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ ActiveWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.window(positioner.OpGetActiveWindowInfo, positioner.Args{})
}

func (s *Server) handleWindowInfo(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInfoInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.window(positioner.OpGetWindowInfo, positioner.Args{Title: args.Title})
}

func (s *Server) handleMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ MonitorsInput) (*mcpsdk.CallToolResult, MonitorsOutput, error) {
	res, err := s.invoker.Invoke(positioner.OpGetMonitorInfo, positioner.Args{})
	if err != nil {
		return nil, MonitorsOutput{}, err
	}
	monitors, err := positioner.ParseMonitorDocument(res.JSON)
	if err != nil {
		return nil, MonitorsOutput{}, fmt.Errorf("malformed monitor data: %w", err)
	}
	return nil, MonitorsOutput{Monitors: monitors}, nil
}

func (s *Server) position(op positioner.Operation, args positioner.Args) (*mcpsdk.CallToolResult, PositionOutput, error) {
	res, err := s.invoker.Invoke(op, args)
	if err != nil {
		s.log.Error().Err(err).Str("op", string(op)).Msg("Tool call failed")
		return nil, PositionOutput{}, err
	}
	s.log.Debug().Str("op", string(op)).Bool("success", res.Bool).Msg("Tool call")
	return nil, PositionOutput{Success: res.Bool}, nil
}

func (s *Server) window(op positioner.Operation, args positioner.Args) (*mcpsdk.CallToolResult, WindowOutput, error) {
	res, err := s.invoker.Invoke(op, args)
	if err != nil {
		s.log.Error().Err(err).Str("op", string(op)).Msg("Tool call failed")
		return nil, WindowOutput{}, err
	}
	data, msg, err := positioner.ParseWindowDocument(res.JSON)
	if err != nil {
		return nil, WindowOutput{}, fmt.Errorf("malformed window data: %w", err)
	}
	return nil, WindowOutput{Window: data, Error: msg}, nil
}
