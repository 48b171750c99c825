// Package speech runs an on-host text-to-speech program as the local voice.
package speech

import (
	"context"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// CommandSpeaker implements ports.LocalSpeaker by running a synthesizer
// such as espeak-ng or say with the text as its last argument. Only one
// utterance plays at a time; a new one interrupts the previous.
type CommandSpeaker struct {
	command string
	args    []string
	log     *zap.Logger

	mu      sync.Mutex
	current *exec.Cmd
}

func NewCommandSpeaker(command string, args []string, log *zap.Logger) *CommandSpeaker {
	if command == "" {
		command = "espeak-ng"
	}
	return &CommandSpeaker{
		command: command,
		args:    args,
		log:     log,
	}
}

// Speak starts the synthesizer and returns without waiting for it.
func (s *CommandSpeaker) Speak(_ context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	args := append(append([]string(nil), s.args...), text)
	cmd := exec.Command(s.command, args...)

	s.mu.Lock()
	if s.current != nil && s.current.Process != nil {
		s.current.Process.Kill()
	}
	if err := cmd.Start(); err != nil {
		s.mu.Unlock()
		s.log.Warn("Local speech failed to start", zap.String("command", s.command), zap.Error(err))
		return
	}
	s.current = cmd
	s.mu.Unlock()

	go s.wait(cmd)
}

func (s *CommandSpeaker) wait(cmd *exec.Cmd) {
	err := cmd.Wait()

	s.mu.Lock()
	if s.current == cmd {
		s.current = nil
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Debug("Local speech ended", zap.String("command", s.command), zap.Error(err))
	}
}

// Stop interrupts the utterance in progress, if any.
func (s *CommandSpeaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.Process != nil {
		s.current.Process.Kill()
	}
}
