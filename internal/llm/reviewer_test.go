package llm

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/MajorE-Garage/arbshift/internal/model"
)

type fakeProvider struct {
	lastReq ReviewRequest
	resp    *ReviewResponse
	err     error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Review(_ context.Context, req ReviewRequest) (*ReviewResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func TestNewProvider_DisabledAndUnknown(t *testing.T) {
	p, err := NewProvider(Config{Provider: ""})
	if p != nil || err != nil {
		t.Errorf("Empty provider should disable the reviewer, got %v, %v", p, err)
	}
	if _, err := NewProvider(Config{Provider: "carrier-pigeon"}); err == nil {
		t.Error("Expected an error for an unknown provider")
	}
}

func TestNewReviewer_Disabled(t *testing.T) {
	r, err := NewReviewer(Config{})
	if r != nil || err != nil {
		t.Errorf("Expected (nil, nil) for disabled config, got %v, %v", r, err)
	}
}

func TestGenerateAdvice_SelectsDeferredAndUnresolved(t *testing.T) {
	fake := &fakeProvider{resp: &ReviewResponse{AdviceMD: "looks user-facing", Model: "fake-1"}}
	r := &Reviewer{provider: fake, config: Config{Model: "fake-1"}}

	records := []*model.StringRecord{
		{Value: "Submit the form now", Category: model.CategoryEligible},
		{Value: "Hello ", Category: model.CategoryManualReview},
		{Value: "odd leftover", Category: model.CategoryUnresolved},
		{Value: "userName", Category: model.CategoryExempt},
	}
	advice, err := r.GenerateAdvice(context.Background(), records)
	if err != nil {
		t.Fatalf("GenerateAdvice failed: %v", err)
	}

	if len(fake.lastReq.Values) != 2 {
		t.Fatalf("Expected 2 values sent for review, got %v", fake.lastReq.Values)
	}
	if fake.lastReq.Values[0] != "Hello " || fake.lastReq.Values[1] != "odd leftover" {
		t.Errorf("Wrong values selected: %v", fake.lastReq.Values)
	}
	if !advice.Enabled || advice.AdviceMD != "looks user-facing" {
		t.Errorf("Advice not attached: %+v", advice)
	}
}

func TestGenerateAdvice_NothingToReview(t *testing.T) {
	fake := &fakeProvider{resp: &ReviewResponse{AdviceMD: "should not be called"}}
	r := &Reviewer{provider: fake, config: Config{}}

	advice, err := r.GenerateAdvice(context.Background(), []*model.StringRecord{
		{Value: "Plain prose", Category: model.CategoryEligible},
	})
	if err != nil {
		t.Fatalf("GenerateAdvice failed: %v", err)
	}
	if advice.AdviceMD != "No deferred or unresolved strings to review." {
		t.Errorf("Expected the no-op message, got %q", advice.AdviceMD)
	}
	if fake.lastReq.Values != nil {
		t.Error("Provider should not be called with nothing to review")
	}
}

func TestGenerateAdvice_BatchLimit(t *testing.T) {
	fake := &fakeProvider{resp: &ReviewResponse{AdviceMD: "ok"}}
	r := &Reviewer{provider: fake, config: Config{}}

	var records []*model.StringRecord
	for i := 0; i < reviewBatchLimit+10; i++ {
		records = append(records, &model.StringRecord{
			Value:    fmt.Sprintf("deferred %d", i),
			Category: model.CategoryManualReview,
		})
	}
	advice, err := r.GenerateAdvice(context.Background(), records)
	if err != nil {
		t.Fatalf("GenerateAdvice failed: %v", err)
	}
	if len(fake.lastReq.Values) != reviewBatchLimit {
		t.Errorf("Expected batch capped at %d, got %d", reviewBatchLimit, len(fake.lastReq.Values))
	}
	if len(advice.Warnings) != 1 {
		t.Errorf("Expected a truncation warning, got %v", advice.Warnings)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt([]string{"Hello ", "Bye $name"})
	if !strings.Contains(prompt, `1. "Hello "`) || !strings.Contains(prompt, `2. "Bye $name"`) {
		t.Errorf("Values missing or unnumbered:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Do NOT translate") {
		t.Errorf("Prompt lost the no-translation rule:\n%s", prompt)
	}
}
