package api

import "github.com/krehermann/stackvm/runner"

type RunRequest struct {
	// Code is the hex encoded program, 0x prefix optional
	Code  string `json:"code"`
	Trace bool   `json:"trace"`
}

type RunResponse struct {
	RunID string `json:"runID"`
	*runner.Result
	Error string `json:"error,omitempty"`
}

type Opcode struct {
	Value     byte   `json:"value"`
	Name      string `json:"name"`
	Immediate uint64 `json:"immediate"`
}

type OpcodesResponse struct {
	Opcodes []Opcode `json:"opcodes"`
}

type StatusResponse struct {
	Version     string `json:"version"`
	StackLimit  int    `json:"stackLimit"`
	MemoryLimit uint64 `json:"memoryLimit"`
	StepLimit   int    `json:"stepLimit"`
}
