package actor_test

import (
	"context"
	"fmt"

	"github.com/holochain/ghost-actor/actor"
)

// counterState is a minimal Actor[T] handler: a bare int wrapped in a
// struct so Invoke closures have something to name.
type counterState struct {
	n int
}

func ExampleActor() {
	a, driver := actor.New(actor.DefaultConfig(), counterState{})
	go driver.Run()

	ctx := context.Background()

	fut := actor.Invoke(ctx, a, func(s *counterState) (int, error) {
		s.n += 5
		return s.n, nil
	})

	fut.Await(ctx).WhenOk(func(v int) {
		fmt.Println("count:", v)
	})

	if err := a.ShutdownImmediate(ctx); err != nil {
		fmt.Println("shutdown error:", err)
	}

	// Output:
	// count: 5
}

// echoHandler demonstrates the builder/multiplexer flavor: a handler type
// with one event variant that carries its own reply token.
type echoHandler struct{}

type echoRequest struct {
	actor.BaseEvent

	Msg   string
	Reply *actor.RespondToken[string]
}

func (e *echoRequest) Apply(h *echoHandler) {
	e.Reply.Respond(e.Msg)
}

func (e *echoRequest) Fail() {
	e.Reply.Close()
}

func ExampleBuilder() {
	b := actor.NewBuilder[echoHandler](actor.DefaultConfig())
	sender := actor.CreateChannel[echoHandler, *echoRequest](b.Factory())

	driver := b.Spawn(echoHandler{})
	go driver.Run()

	ctx := context.Background()

	token, fut := actor.NewRespondToken[string](ctx)
	if err := sender.Send(ctx, &echoRequest{Msg: "hi", Reply: token}); err != nil {
		fmt.Println("send error:", err)
		return
	}

	fut.Await(ctx).WhenOk(func(v string) {
		fmt.Println(v)
	})

	sender.ShutdownImmediate(ctx)

	// Output:
	// hi
}
