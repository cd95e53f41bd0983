// listinggen-stub is a local OpenAI-compatible chat endpoint that answers
// every request with a well-formed listing document, so the service can be
// exercised end to end without backend credentials. Point LLM_BASE_URL at
// it (default http://localhost:8081/v1).
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func main() {
	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "stub-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		sys := ""
		user := ""
		for _, m := range req.Messages {
			switch m.Role {
			case "system":
				sys = m.Content
			case "user":
				user = m.Content
			}
		}

		content := fullDocument(wantsVariants(sys, user))
		if section, ok := repairSection(sys); ok {
			content = section
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-stub",
			"object":  "chat.completion",
			"model":   model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	})

	log.Printf("listinggen-stub listening on %s (model %s)", addr, model)
	log.Fatal(http.ListenAndServe(addr, mux))
}

// repairSection answers section-scoped repair prompts with just the section
// the prompt asks for.
func repairSection(sys string) (string, bool) {
	if !strings.Contains(sys, "repair one section") {
		return "", false
	}
	switch {
	case strings.Contains(sys, "TITLES:"):
		return "TITLES:\n1. " + sampleTitle + "\n2. " + sampleTitle2 + "\n", true
	case strings.Contains(sys, "BULLET POINTS:"):
		return "BULLET POINTS:\n" + sampleBullets, true
	case strings.Contains(sys, "DESCRIPTION:"):
		return "DESCRIPTION:\n" + sampleDescription + "\n", true
	case strings.Contains(sys, "BACKEND KEYWORDS:"):
		return "BACKEND KEYWORDS:\n" + sampleBackend + "\n", true
	}
	return "", false
}

func wantsVariants(sys, user string) int {
	if strings.Contains(sys, "VARIANT A") || strings.Contains(user, "VARIANT A") {
		return 3
	}
	return 1
}

const (
	sampleTitle   = "Stubline Hydrating Argan Oil Hair Serum for Dry and Damaged Hair with Vitamin E, Lightweight Leave-In Formula for Daily Shine and Frizz Control, 100ml Bottle"
	sampleTitle2  = "Stubline Argan Oil Serum 100ml, Nourishing Leave-In Hair Treatment with Vitamin E for Dry Hair, Fast-Absorbing Formula for Smoothness, Shine and Frizz Control"
	sampleBullets = "- **Deep Nourishment:** argan oil and vitamin E replenish dry lengths, leaving hair soft and manageable from root to tip after every single application\n- **Lightweight Formula:** absorbs in seconds without greasy residue, so styled hair keeps its natural bounce and movement throughout the day\n- **Frizz Control:** smooths the hair surface and seals split ends, taming flyaways in humid weather and after heat styling sessions\n- **Daily Shine:** a few drops restore a healthy gloss to dull hair, suitable for all hair types including colored and chemically treated hair\n- **Easy Application:** the dropper bottle dispenses the right dose every time, for use on damp or dry hair, morning or night\n"
	sampleBackend = "arganoil hairserum vitamine leavein frizz shine dryhair treatment"
)

var sampleDescription = strings.TrimSpace(strings.Repeat(
	"This lightweight argan oil serum wraps every strand in lasting moisture while vitamin E shields hair from daily stress. ", 30))

func fullDocument(variants int) string {
	var b strings.Builder
	b.WriteString("RESEARCH\nShoppers in this category search for lightweight oil serums and frizz control.\nSOURCES: https://example.com/market-notes https://example.com/category-report\n\n")
	labels := []string{""}
	if variants == 3 {
		labels = []string{"A", "B", "C"}
	}
	for _, label := range labels {
		if label != "" {
			fmt.Fprintf(&b, "VARIANT %s\n", label)
		}
		b.WriteString("TITLES:\n1. " + sampleTitle + "\n2. " + sampleTitle2 + "\n")
		b.WriteString("BULLET POINTS:\n" + sampleBullets)
		b.WriteString("DESCRIPTION:\n" + sampleDescription + "\n")
		b.WriteString("BACKEND KEYWORDS:\n" + sampleBackend + "\n\n")
	}
	return b.String()
}
