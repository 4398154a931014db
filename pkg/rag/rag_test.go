package rag_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/emorelay/pkg/llm"
	"github.com/papercomputeco/emorelay/pkg/rag"
)

const backendReply = `{"emotion":{"label":"joy","scores":{"joy":0.9,"anger":0.1}},"answer":"Glad to hear it!"}`

var _ = Describe("Client", func() {
	var (
		server   *httptest.Server
		status   int
		reply    string
		hits     atomic.Int32
		received map[string]any
		path     string
		client   *rag.Client
	)

	BeforeEach(func() {
		status = http.StatusOK
		reply = backendReply
		hits.Store(0)
		received = nil

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			path = r.URL.Path
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &received)
			w.WriteHeader(status)
			_, _ = w.Write([]byte(reply))
		}))
		DeferCleanup(server.Close)

		var err error
		client, err = rag.New(rag.Config{Target: server.URL + "/"})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("New", func() {
		It("defaults the target", func() {
			c, err := rag.New(rag.Config{})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Endpoint()).To(Equal("http://127.0.0.1:8000/chat"))
		})

		It("rejects a target without scheme", func() {
			_, err := rag.New(rag.Config{Target: "localhost:8000"})
			Expect(err).To(HaveOccurred())
		})

		It("trims trailing slashes", func() {
			Expect(client.Endpoint()).To(Equal(server.URL + "/chat"))
		})
	})

	Describe("Chat", func() {
		It("forwards the message and returns raw JSON", func() {
			raw, err := client.Chat(context.Background(), "I passed the exam")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(MatchJSON(backendReply))
			Expect(path).To(Equal("/chat"))
			Expect(received).To(Equal(map[string]any{"message": "I passed the exam"}))
		})

		It("rejects an empty message without calling the backend", func() {
			_, err := client.Chat(context.Background(), "")
			var validationErr *llm.ValidationError
			Expect(err).To(BeAssignableToTypeOf(validationErr))
			Expect(err).To(MatchError("Message is required"))
			Expect(hits.Load()).To(BeZero())
		})

		It("forwards a whitespace-only message to the backend", func() {
			_, err := client.Chat(context.Background(), "   ")
			Expect(err).NotTo(HaveOccurred())
			Expect(received).To(Equal(map[string]any{"message": "   "}))
			Expect(hits.Load()).To(BeEquivalentTo(1))
		})

		It("passes backend status and body through", func() {
			status = http.StatusServiceUnavailable
			reply = "index not ready"

			_, err := client.Chat(context.Background(), "hello")
			Expect(err).To(MatchError("index not ready"))
			Expect(llm.StatusCode(err)).To(Equal(http.StatusServiceUnavailable))
		})

		It("treats a non-JSON body as a transport failure", func() {
			reply = "plain text"

			_, err := client.Chat(context.Background(), "hello")
			Expect(err).To(HaveOccurred())
			Expect(llm.StatusCode(err)).To(Equal(http.StatusInternalServerError))
		})

		It("reports an unreachable backend as a transport failure", func() {
			server.Close()

			_, err := client.Chat(context.Background(), "hello")
			Expect(err).To(HaveOccurred())
			Expect(llm.StatusCode(err)).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Ask", func() {
		It("decodes the answer", func() {
			answer, err := client.Ask(context.Background(), "hello")
			Expect(err).NotTo(HaveOccurred())
			Expect(answer.Answer).To(Equal("Glad to hear it!"))
			Expect(answer.Emotion.Label).To(Equal("joy"))
			Expect(answer.Emotion.Scores).To(HaveKeyWithValue("joy", 0.9))
		})

		It("leaves missing fields zero", func() {
			reply = `{"answer":"ok"}`

			answer, err := client.Ask(context.Background(), "hello")
			Expect(err).NotTo(HaveOccurred())
			Expect(answer.Emotion.Label).To(BeEmpty())
		})

		It("fails on a reply of the wrong shape", func() {
			reply = `[1,2]`

			_, err := client.Ask(context.Background(), "hello")
			Expect(llm.StatusCode(err)).To(Equal(http.StatusInternalServerError))
		})
	})
})
