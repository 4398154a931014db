package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/emorelay/pkg/dispatch"
	"github.com/papercomputeco/emorelay/pkg/llm/provider"
	"github.com/papercomputeco/emorelay/pkg/llm/provider/azure"
	"github.com/papercomputeco/emorelay/pkg/llm/provider/openai"
	"github.com/papercomputeco/emorelay/pkg/logger"
	"github.com/papercomputeco/emorelay/pkg/rag"
)

// fakeUpstream answers every request with a fixed status and body and counts hits.
type fakeUpstream struct {
	*httptest.Server
	hits   atomic.Int32
	status int
	body   string
}

func newFakeUpstream(status int, body string) *fakeUpstream {
	f := &fakeUpstream{status: status, body: body}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
	}))
	DeferCleanup(f.Close)
	return f
}

const completion = `{"choices":[{"message":{"role":"assistant","content":"Hi there"}}]}`

// doJSON sends method+path with body through app.Test and decodes the reply.
func doJSON(app *fiber.App, method, path, body string) (int, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())

	out := map[string]any{}
	if len(raw) > 0 {
		Expect(json.Unmarshal(raw, &out)).To(Succeed(), string(raw))
	}
	return resp.StatusCode, out
}

var _ = Describe("Server", func() {
	var (
		llmUpstream *fakeUpstream
		ragUpstream *fakeUpstream
		openaiKey   string
		mcpEnabled  bool
		staticDir   string
		server      *Server
	)

	BeforeEach(func() {
		llmUpstream = newFakeUpstream(http.StatusOK, completion)
		ragUpstream = newFakeUpstream(http.StatusOK, `{"emotion":{"label":"joy","scores":{"joy":0.9}},"answer":"Nice!"}`)
		openaiKey = "sk-test"
		mcpEnabled = false
		staticDir = ""
	})

	JustBeforeEach(func() {
		resolver := provider.NewResolver(provider.Config{
			OpenAI: openai.Config{APIKey: openaiKey, BaseURL: llmUpstream.URL},
			Azure:  azure.Config{APIKey: "az-test", Endpoint: llmUpstream.URL},
		})
		d, err := dispatch.New(dispatch.Config{Resolver: resolver, Logger: logger.Nop()})
		Expect(err).NotTo(HaveOccurred())

		ragClient, err := rag.New(rag.Config{Target: ragUpstream.URL})
		Expect(err).NotTo(HaveOccurred())

		server, err = NewServer(Config{
			ListenAddr: ":0",
			StaticDir:  staticDir,
			MCP:        mcpEnabled,
			Dispatcher: d,
			RAG:        ragClient,
			Providers:  resolver,
		}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewServer", func() {
		It("requires its collaborators", func() {
			_, err := NewServer(Config{}, logger.Nop())
			Expect(err).To(MatchError("dispatcher is required"))
		})
	})

	Describe("GET /health", func() {
		It("reports ok", func() {
			status, body := doJSON(server.app, http.MethodGet, "/health", "")
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(Equal(map[string]any{"ok": true}))
		})
	})

	Describe("POST /api/chat", func() {
		It("returns the normalized reply", func() {
			status, body := doJSON(server.app, http.MethodPost, "/api/chat",
				`{"messages":[{"role":"user","content":"hello"}]}`)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(HaveKeyWithValue("content", "Hi there"))
			Expect(body).To(HaveKey("raw"))
		})

		It("rejects malformed JSON", func() {
			status, body := doJSON(server.app, http.MethodPost, "/api/chat", `{"messages":`)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(HaveKeyWithValue("error", "Invalid JSON body"))
			Expect(llmUpstream.hits.Load()).To(BeZero())
		})

		It("rejects an empty history without calling upstream", func() {
			status, body := doJSON(server.app, http.MethodPost, "/api/chat", `{"messages":[]}`)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(HaveKeyWithValue("error", "messages array is required"))
			Expect(llmUpstream.hits.Load()).To(BeZero())
		})

		It("rejects an unknown provider with 400", func() {
			status, body := doJSON(server.app, http.MethodPost, "/api/chat",
				`{"provider":"anthropic","messages":[{"role":"user","content":"hello"}]}`)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body["error"]).To(ContainSubstring("openai, azure, openrouter"))
		})

		It("rejects an azure provider without deployment with 400", func() {
			status, body := doJSON(server.app, http.MethodPost, "/api/chat",
				`{"provider":"azure","messages":[{"role":"user","content":"hello"}]}`)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body["error"]).To(ContainSubstring("AZURE_OPENAI_DEPLOYMENT"))
			Expect(llmUpstream.hits.Load()).To(BeZero())
		})

		Context("without a credential", func() {
			BeforeEach(func() { openaiKey = "" })

			It("returns 400 and makes no upstream call", func() {
				status, body := doJSON(server.app, http.MethodPost, "/api/chat",
					`{"messages":[{"role":"user","content":"hello"}]}`)
				Expect(status).To(Equal(http.StatusBadRequest))
				Expect(body).To(HaveKeyWithValue("error", "Missing API key for provider: openai"))
				Expect(llmUpstream.hits.Load()).To(BeZero())
			})
		})

		It("passes an upstream 429 through", func() {
			llmUpstream.status = http.StatusTooManyRequests
			llmUpstream.body = "rate limited"

			status, body := doJSON(server.app, http.MethodPost, "/api/chat",
				`{"messages":[{"role":"user","content":"hello"}]}`)
			Expect(status).To(Equal(http.StatusTooManyRequests))
			Expect(body).To(Equal(map[string]any{"error": "rate limited"}))
		})

		It("returns empty content when the payload has none", func() {
			llmUpstream.body = `{"choices":[]}`

			status, body := doJSON(server.app, http.MethodPost, "/api/chat",
				`{"messages":[{"role":"user","content":"hello"}]}`)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(HaveKeyWithValue("content", ""))
		})

		It("maps an unreachable upstream to 500", func() {
			llmUpstream.Close()

			status, body := doJSON(server.app, http.MethodPost, "/api/chat",
				`{"messages":[{"role":"user","content":"hello"}]}`)
			Expect(status).To(Equal(http.StatusInternalServerError))
			Expect(body["error"]).NotTo(BeEmpty())
		})

		It("rejects bodies over the limit", func() {
			huge := `{"messages":[{"role":"user","content":"` + strings.Repeat("a", BodyLimit) + `"}]}`
			req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(huge))
			req.Header.Set("Content-Type", "application/json")

			// fasthttp may stop reading before a response is written, in
			// which case app.Test reports the limit as an error.
			resp, err := server.app.Test(req, -1)
			if err != nil {
				Expect(err).To(MatchError(ContainSubstring("body size exceeds")))
			} else {
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusRequestEntityTooLarge))
			}
			Expect(llmUpstream.hits.Load()).To(BeZero())
		})
	})

	Describe("POST /api/emotion-chat", func() {
		It("proxies the backend JSON untouched", func() {
			status, body := doJSON(server.app, http.MethodPost, "/api/emotion-chat", `{"message":"I passed!"}`)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(HaveKeyWithValue("answer", "Nice!"))
			Expect(body).To(HaveKey("emotion"))
		})

		It("requires a message", func() {
			status, body := doJSON(server.app, http.MethodPost, "/api/emotion-chat", `{}`)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(HaveKeyWithValue("error", "Message is required"))
			Expect(ragUpstream.hits.Load()).To(BeZero())
		})

		It("passes backend errors through", func() {
			ragUpstream.status = http.StatusBadGateway
			ragUpstream.body = "model offline"

			status, body := doJSON(server.app, http.MethodPost, "/api/emotion-chat", `{"message":"hi"}`)
			Expect(status).To(Equal(http.StatusBadGateway))
			Expect(body).To(HaveKeyWithValue("error", "model offline"))
		})
	})

	Describe("POST /api/emotion", func() {
		It("classifies text", func() {
			status, body := doJSON(server.app, http.MethodPost, "/api/emotion", `{"text":"我很开心，谢谢你"}`)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(Equal(map[string]any{"label": "joy", "score": float64(2), "emoji": "😊"}))
		})

		It("keeps a zero score for neutral text", func() {
			_, body := doJSON(server.app, http.MethodPost, "/api/emotion", `{"text":"the sky is blue"}`)
			Expect(body).To(HaveKeyWithValue("label", "neutral"))
			Expect(body).To(HaveKeyWithValue("score", float64(0)))
		})

		It("returns the empty sentinel for blank text", func() {
			status, body := doJSON(server.app, http.MethodPost, "/api/emotion", `{"text":"   "}`)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(Equal(map[string]any{"empty": true}))
		})
	})

	Describe("GET /api/providers", func() {
		It("lists providers and their status without secrets", func() {
			status, body := doJSON(server.app, http.MethodGet, "/api/providers", "")
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(HaveKeyWithValue("default", "openai"))
			Expect(body["providers"]).To(ConsistOf(
				map[string]any{"name": "openai", "configured": true},
				map[string]any{"name": "azure", "configured": false},
				map[string]any{"name": "openrouter", "configured": false},
			))
		})
	})

	Describe("unknown routes", func() {
		It("answer 404 with an error body", func() {
			status, body := doJSON(server.app, http.MethodGet, "/api/nope", "")
			Expect(status).To(Equal(http.StatusNotFound))
			Expect(body).To(HaveKey("error"))
		})
	})

	Describe("CORS", func() {
		It("allows any origin", func() {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("Origin", "http://example.com")
			resp, err := server.app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
		})
	})

	Context("with a static dir", func() {
		BeforeEach(func() {
			staticDir = GinkgoT().TempDir()
			Expect(os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>emorelay</h1>"), 0o600)).To(Succeed())
		})

		It("serves the web client", func() {
			resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			raw, _ := io.ReadAll(resp.Body)
			Expect(string(raw)).To(ContainSubstring("emorelay"))
		})
	})

	Context("with MCP enabled", func() {
		BeforeEach(func() { mcpEnabled = true })

		It("mounts the MCP endpoint", func() {
			req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(
				`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Accept", "application/json, text/event-stream")

			resp, err := server.app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).NotTo(Equal(http.StatusNotFound))
		})
	})

	Context("with MCP disabled", func() {
		It("does not mount the MCP endpoint", func() {
			resp, err := server.app.Test(httptest.NewRequest(http.MethodPost, "/mcp", nil), -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})
	})
})
