package internal

import "strings"

// FallbackReply is returned when no template applies
const FallbackReply = "Thank you for sharing."

// Recognized context tags
const (
	ContextWork          = "work"
	ContextRelationships = "relationships"
	ContextHealth        = "health"
	ContextSchool        = "school"
	ContextFamily        = "family"
)

type phaseTemplates struct {
	first    []string
	followUp []string
}

func (p phaseTemplates) pick(followUp bool) []string {
	if followUp && len(p.followUp) > 0 {
		return p.followUp
	}
	return p.first
}

type bucketTemplates struct {
	generic  phaseTemplates
	contexts map[string]phaseTemplates
}

var responseTemplates = map[string]bucketTemplates{
	CategoryJoy: {
		generic: phaseTemplates{
			first: []string{
				"That's wonderful! What made you feel so positive about this?",
				"It's great to hear you're feeling good. What's been the highlight?",
				"I love hearing that. What's contributing most to this feeling?",
			},
			followUp: []string{
				"That energy keeps coming through. What else is going well?",
				"It's good to hear this again. How can you hold on to it?",
			},
		},
		contexts: map[string]phaseTemplates{
			ContextWork: {
				first:    []string{"That's great news about work! What went well for you there?", "Sounds like work is treating you well. What are you most proud of?"},
				followUp: []string{"Work still seems to be going your way. What's driving that momentum?"},
			},
			ContextRelationships: {
				first:    []string{"It's lovely to hear things are good with the people in your life. What made it special?"},
				followUp: []string{"Those connections clearly matter to you. What would you like to build on?"},
			},
			ContextHealth: {
				first:    []string{"That's encouraging about your health. What's been helping?"},
				followUp: []string{"Keep it up. Which routine has made the biggest difference?"},
			},
			ContextSchool: {
				first:    []string{"Congratulations on how your studies are going! What clicked for you?"},
				followUp: []string{"Your studies seem to be on a roll. What's next on your list?"},
			},
			ContextFamily: {
				first:    []string{"It's wonderful to hear good things about your family. What happened?"},
				followUp: []string{"Family time seems to be lifting you up. What would you like more of?"},
			},
		},
	},
	CategorySadness: {
		generic: phaseTemplates{
			first: []string{
				"I'm sorry to hear that. Would you like to talk about what's troubling you?",
				"That sounds really hard. I'm here to listen if you want to share more.",
				"Thank you for telling me. What's been weighing on you most?",
			},
			followUp: []string{
				"I'm still here with you. What feels hardest right now?",
				"It's okay to take this one step at a time. What would help a little today?",
			},
		},
		contexts: map[string]phaseTemplates{
			ContextWork: {
				first:    []string{"Work stress can be exhausting. What part of it is getting to you?"},
				followUp: []string{"Work still sounds heavy. Is there one thing there you could set down?"},
			},
			ContextRelationships: {
				first:    []string{"Relationships can hurt deeply. Do you want to talk about what happened?"},
				followUp: []string{"That situation still seems to be on your mind. How are you taking care of yourself?"},
			},
			ContextHealth: {
				first:    []string{"I'm sorry your health is troubling you. How are you coping day to day?"},
				followUp: []string{"Health worries can wear you down. Is anyone supporting you through this?"},
			},
			ContextSchool: {
				first:    []string{"Studies can feel overwhelming. What's the biggest pressure right now?"},
				followUp: []string{"School still sounds tough. Would breaking it into smaller pieces help?"},
			},
			ContextFamily: {
				first:    []string{"Family troubles can be especially painful. What's going on at home?"},
				followUp: []string{"Things at home still sound difficult. What would make today a bit easier?"},
			},
		},
	},
	CategoryCalm: {
		generic: phaseTemplates{
			first: []string{
				"It sounds like you're in a balanced state. How are you feeling overall?",
				"Thanks for sharing. Is there anything on your mind you'd like to explore?",
			},
			followUp: []string{
				"You seem steady. Is there anything you'd like to dig into further?",
				"Got it. What else would you like to talk about?",
			},
		},
		contexts: map[string]phaseTemplates{
			ContextWork: {
				first:    []string{"Sounds like a fairly ordinary stretch at work. Anything you'd like to change about it?"},
				followUp: []string{"Work seems steady for now. What would make it more rewarding?"},
			},
			ContextRelationships: {
				first:    []string{"Things with the people around you seem calm. How do you feel about where they stand?"},
				followUp: []string{"Your relationships sound settled. Is there anyone you'd like to reconnect with?"},
			},
			ContextHealth: {
				first:    []string{"It sounds like your health is steady. Is there anything you'd like to keep an eye on?"},
				followUp: []string{"Steady is good. Any habits you'd like to start or keep?"},
			},
			ContextSchool: {
				first:    []string{"Your studies seem to be on an even keel. What are you working on right now?"},
				followUp: []string{"School sounds manageable. What's coming up next?"},
			},
			ContextFamily: {
				first:    []string{"Things at home sound settled. How is everyone doing?"},
				followUp: []string{"Home seems calm. Is there anything you'd like to plan together?"},
			},
		},
	},
	// every Conflicted template is a clarifying question
	CategoryConflicted: {
		generic: phaseTemplates{
			first: []string{
				"You seem to have mixed feelings about this. Can you tell me more about what's on your mind?",
				"It sounds like part of you feels one way and part another. Which side feels stronger right now?",
				"What would help you feel clearer about this?",
			},
			followUp: []string{
				"Are your feelings about this shifting at all as we talk?",
				"What part of this still feels unresolved?",
			},
		},
		contexts: map[string]phaseTemplates{
			ContextWork: {
				first:    []string{"What parts of work feel good, and which parts don't?"},
				followUp: []string{"Has anything at work tipped the balance since we last talked?"},
			},
			ContextRelationships: {
				first:    []string{"What draws you toward this relationship, and what holds you back?"},
				followUp: []string{"Has your view of this relationship changed as we've talked?"},
			},
			ContextHealth: {
				first:    []string{"What about your health feels uncertain right now?"},
				followUp: []string{"Which health question is still on your mind?"},
			},
			ContextSchool: {
				first:    []string{"Which parts of your studies feel exciting, and which feel like a burden?"},
				followUp: []string{"Is one side of your studies starting to outweigh the other?"},
			},
			ContextFamily: {
				first:    []string{"What about this family situation feels hard to sort out?"},
				followUp: []string{"Where do you stand on the family situation now?"},
			},
		},
	},
}

// shiftOpeners preface follow-ups when the previous descriptor is known
var shiftOpeners = map[string][]string{
	ShiftImproving: {
		"You sound a bit lighter than before.",
		"Things seem to be looking up since your last message.",
	},
	ShiftWorsening: {
		"This sounds heavier than what you shared before.",
		"It seems things have gotten harder since your last message.",
	},
	ShiftStable: {
		"Thanks for staying with this.",
		"I'm following along.",
	},
}

var contextKeywords = map[string][]string{
	ContextWork:          {"work", "job", "career", "office", "boss", "coworker", "colleague"},
	ContextRelationships: {"relationship", "relationships", "partner", "friend", "friends", "dating", "marriage", "love"},
	ContextHealth:        {"health", "sleep", "illness", "sick", "fitness", "doctor", "medical"},
	ContextSchool:        {"school", "study", "studies", "exam", "exams", "class", "college", "university"},
	ContextFamily:        {"family", "parents", "kids", "children", "home", "mother", "father"},
}

// canonicalContext maps a free-form tag to a recognized context, or "".
func canonicalContext(tag string) string {
	words := strings.FieldsFunc(strings.ToLower(tag), func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
	for _, ctx := range []string{ContextWork, ContextRelationships, ContextHealth, ContextSchool, ContextFamily} {
		for _, w := range words {
			for _, kw := range contextKeywords[ctx] {
				if w == kw {
					return ctx
				}
			}
		}
	}
	return ""
}

// contextSuffix adds a context mention for strong emotions when the tag
// has no dedicated templates.
func contextSuffix(tag string, valence float64) string {
	switch {
	case valence > 0.5:
		return " I can see you're feeling positive about " + tag + "."
	case valence < -0.5:
		return " It sounds like " + tag + " is really affecting you."
	}
	return ""
}
