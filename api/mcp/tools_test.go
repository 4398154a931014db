package mcp

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/emorelay/pkg/llm"
	"github.com/papercomputeco/emorelay/pkg/logger"
)

// recordingDispatcher returns a canned reply or error and keeps the last request.
type recordingDispatcher struct {
	reply *llm.Reply
	err   error
	last  *llm.ChatRequest
}

func (d *recordingDispatcher) Dispatch(_ context.Context, req *llm.ChatRequest) (*llm.Reply, error) {
	d.last = req
	if d.err != nil {
		return nil, d.err
	}
	return d.reply, nil
}

var _ = Describe("tools", func() {
	var (
		dispatcher *recordingDispatcher
		server     *Server
		ctx        context.Context
	)

	BeforeEach(func() {
		dispatcher = &recordingDispatcher{reply: &llm.Reply{Content: "Hi there"}}

		var err error
		server, err = NewServer(Config{Dispatcher: dispatcher, Logger: logger.Nop()})
		Expect(err).NotTo(HaveOccurred())
		ctx = context.TODO()
	})

	Describe("handleClassify", func() {
		It("returns label, score and emoji", func() {
			res, out, err := server.handleClassify(ctx, nil, ClassifyInput{Text: "bad but wow"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(BeNil())
			Expect(out).To(Equal(ClassifyOutput{Label: "surprise", Score: -2, Emoji: "😮"}))
		})

		It("flags empty input", func() {
			_, out, err := server.handleClassify(ctx, nil, ClassifyInput{Text: "   "})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(ClassifyOutput{Empty: true}))
		})
	})

	Describe("handleChat", func() {
		It("sends the message as a single user turn", func() {
			temperature := 0.1
			res, out, err := server.handleChat(ctx, nil, ChatInput{
				Message:     "hello",
				Provider:    "openrouter",
				Model:       "some/model",
				Temperature: &temperature,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(BeNil())
			Expect(out.Content).To(Equal("Hi there"))

			Expect(dispatcher.last.Messages).To(Equal([]llm.Message{{Role: llm.RoleUser, Content: "hello"}}))
			Expect(dispatcher.last.Provider).To(Equal("openrouter"))
			Expect(dispatcher.last.Model).To(Equal("some/model"))
			Expect(*dispatcher.last.Temperature).To(Equal(0.1))
		})

		It("sends no messages for an empty message", func() {
			_, _, _ = server.handleChat(ctx, nil, ChatInput{})
			Expect(dispatcher.last.Messages).To(BeEmpty())
		})

		It("turns dispatch errors into tool errors", func() {
			dispatcher.err = &llm.UpstreamError{Status: http.StatusTooManyRequests, Body: "rate limited"}

			res, _, err := server.handleChat(ctx, nil, ChatInput{Message: "hello"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(res.Content).To(HaveLen(1))
			Expect(res.Content[0].(*mcp.TextContent).Text).To(Equal("rate limited"))
		})
	})
})
