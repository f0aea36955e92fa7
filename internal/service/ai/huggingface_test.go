package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type hfBody struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		MaxNewTokens   *int     `json:"max_new_tokens"`
		Temperature    *float64 `json:"temperature"`
		ReturnFullText *bool    `json:"return_full_text"`
	} `json:"parameters"`
}

func TestHuggingFaceGenerate(t *testing.T) {
	var got hfBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/meta-llama/Llama-3.1-8B-Instruct" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer hf_token" {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"generated_text":" I hear you. "}]`))
	}))
	defer srv.Close()

	client := NewHuggingFaceClient(srv.URL+"/", "meta-llama/Llama-3.1-8B-Instruct", "hf_token", srv.Client())
	text, err := client.Generate(context.Background(), "<|system|>\nx\n<|user|>\nhi\n<|assistant|>", Params{MaxNewTokens: 300, Temperature: 0.7})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if text != " I hear you. " {
		t.Fatalf("unexpected text %q", text)
	}
	p := got.Parameters
	if p.MaxNewTokens == nil || *p.MaxNewTokens != 300 || p.Temperature == nil || *p.Temperature != 0.7 {
		t.Fatalf("unexpected parameters: %+v", p)
	}
	if p.ReturnFullText == nil || *p.ReturnFullText {
		t.Fatalf("return_full_text must be sent as false")
	}
	if got.Inputs != "<|system|>\nx\n<|user|>\nhi\n<|assistant|>" {
		t.Fatalf("unexpected inputs %q", got.Inputs)
	}
}

func TestHuggingFaceEmptyGeneration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	text, err := NewHuggingFaceClient(srv.URL, "m", "t", srv.Client()).Generate(context.Background(), "p", Params{})
	if err != nil || text != "" {
		t.Fatalf("expected empty text, got %q (%v)", text, err)
	}
}

func TestHuggingFaceStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Model is currently loading"}`))
	}))
	defer srv.Close()

	client := NewHuggingFaceClient(srv.URL, "m", "t", srv.Client())
	_, err := client.Generate(context.Background(), "p", Params{})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable || statusErr.Message != "Model is currently loading" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
}

func TestErrorMessageFallsBackToBody(t *testing.T) {
	if got := errorMessage([]byte("  bad gateway \n")); got != "bad gateway" {
		t.Fatalf("unexpected message %q", got)
	}
}
