package internal

import (
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"time"
)

// SeedFunc returns the PRNG seed for one reply
type SeedFunc func(sessionID string) uint64

// ResponseRequest carries everything a reply may depend on
type ResponseRequest struct {
	SessionID string
	Emotion   EmotionDescriptor
	Context   string
	History   []ConversationTurn
	Previous  *EmotionDescriptor
}

// Responder picks templated replies for emotion descriptors
type Responder struct {
	seed SeedFunc
}

// ResponderOption configures a Responder
type ResponderOption func(*Responder)

// WithSeed makes every reply use a fixed seed.
func WithSeed(seed uint64) ResponderOption {
	return func(r *Responder) {
		r.seed = func(string) uint64 { return seed }
	}
}

// WithSeedFunc installs a custom seed source.
func WithSeedFunc(fn SeedFunc) ResponderOption {
	return func(r *Responder) {
		if fn != nil {
			r.seed = fn
		}
	}
}

// NewResponder creates a Responder seeded from call time and session id
// unless an option says otherwise.
func NewResponder(opts ...ResponderOption) *Responder {
	r := &Responder{seed: defaultSeed}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func defaultSeed(sessionID string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(sessionID))
	return uint64(time.Now().UnixNano()) ^ h.Sum64()
}

// Respond returns a reply for the request. It never fails: anything
// unexpected yields FallbackReply.
func (r *Responder) Respond(req ResponseRequest) (reply string) {
	defer func() {
		if rec := recover(); rec != nil {
			LogError("responder panic for session %s: %v", req.SessionID, rec)
			reply = FallbackReply
		}
	}()

	bucket, ok := responseTemplates[req.Emotion.Category]
	if !ok {
		LogWarn("no templates for category %q", req.Emotion.Category)
		return FallbackReply
	}

	seed := r.seed(req.SessionID)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	followUp := len(req.History) > 0
	tag := strings.TrimSpace(req.Context)
	ctx := canonicalContext(tag)

	candidates := bucket.generic.pick(followUp)
	if variant, ok := bucket.contexts[ctx]; ok && ctx != "" {
		candidates = variant.pick(followUp)
	}
	if len(candidates) == 0 {
		return FallbackReply
	}

	var b strings.Builder
	if followUp && req.Previous != nil {
		openers := shiftOpeners[ValenceShift(req.Previous.Valence, req.Emotion.Valence)]
		if len(openers) > 0 {
			b.WriteString(openers[rng.IntN(len(openers))])
			b.WriteByte(' ')
		}
	}
	b.WriteString(candidates[rng.IntN(len(candidates))])
	if ctx == "" && tag != "" {
		b.WriteString(contextSuffix(tag, req.Emotion.Valence))
	}
	return b.String()
}
