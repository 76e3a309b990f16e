package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const fallbackText = "Couldn't reach OpenAI"

// Client wraps OpenAI chat completions. A Client built without an API key is
// valid and answers every prompt with a fixed fallback string, so the scoring
// path never depends on the API being reachable.
type Client struct {
	api   *openai.Client
	model string
	log   *zap.Logger
}

func New(apiKey string, log *zap.Logger) *Client {
	c := &Client{model: openai.GPT3Dot5Turbo, log: log}
	if apiKey == "" {
		log.Warn("OPENAI_API_KEY not set, AI features degrade to fallback texts")
		return c
	}
	c.api = openai.NewClient(apiKey)
	return c
}

func (c *Client) query(prompt string, extra ...openai.ChatCompletionMessage) string {
	if c.api == nil {
		return fallbackText
	}
	messages := append([]openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: prompt},
	}, extra...)

	resp, err := c.api.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		c.log.Error("openai query failed", zap.Error(err))
		return fallbackText
	}
	if len(resp.Choices) == 0 {
		return fallbackText
	}
	return resp.Choices[0].Message.Content
}

func (c *Client) TooEarlyMessage(name, message string, pointsLeft int) string {
	prompt := fmt.Sprintf(`
%s hat heute um 13:36 statt 13:37 eine Chatnachricht geschrieben und damit einen Punkt verloren.
Die Person hat jetzt noch %d. Die Nachricht war: "%s". Beleidige die Person lustig dafür.
`, name, pointsLeft, message)
	return c.query(prompt)
}

func (c *Client) SuccessMessage(botName, name, message, scores string, catchUp int) string {
	extra := ""
	if catchUp > 0 {
		extra = fmt.Sprintf(
			"Weil die letzten %d Tage niemand um 13:37 geschrieben hat, hast "+
				"du %d Punkt(e) erhalten. Mache dich darüber besonders lustig.\n", catchUp, catchUp)
	}
	prompt := fmt.Sprintf(`
Du bist %s. %s hat heute um 13:37 die erste Chatnachricht geschrieben und damit einen Punkt erhalten.
Gib eine lustige Antwort auf seine Nachricht. Mache dich über den Punktestand aller Teilnehmer lustig.
%s
- Heute ist der %s
- Der Inhalt der Chatnachricht ist: "%s"
- Aktuelle Punktzahl:
%s
- Man bekommt Punkte abgezogen, wenn man um 13:36 schreibt
- Du bekommst Punkte für jeden Tag, an dem jemand anders NICHT um 13:37 schreibt`,
		botName, name, extra, time.Now().Format("02.01.2006"), message, scores)
	return c.query(prompt)
}

func (c *Client) LostMessage(botName, name, message, scores string, days int) string {
	prompt := fmt.Sprintf(`
Du bist %s.
Weil die Chatteilnehmer die letzten %d Tage vergessen haben,
um 13:37 zu schreiben, hast du %d Punkt(e) erhalten.
Mache dich über den Punktestand aller Teilnehmer lustig. Achte genau darauf, auf welchem Platz du selbst bist.
Mache dich über die letzte Nachricht lustig.

- Heute ist der %s
- Letzte Nachricht (von %s): "%s"
- Aktuelle Punktzahl:
%s
- Man bekommt Punkte abgezogen, wenn man um 13:36 schreibt
- Du bekommst Punkte für jeden Tag, an dem jemand anders NICHT um 13:37 schreibt`,
		botName, days, days, time.Now().Format("02.01.2006"), name, message, scores)
	return c.query(prompt)
}

func (c *Client) ChallengeQuestion() string {
	prompt := fmt.Sprintf(`
Du bist ein Quizmaster. Heute ist der %s.
Stelle eine Frage. Die Frage muss beantwortbar sein. Sie muss der Realität entsprechen, prüfe die Fakten genau.
Die Frage darf nicht zu spezifisch sein, damit sie von den meisten beantwortet werden kann.
Sie darf nicht zu einfach sein, damit nicht alle Teilnehmer die Antwort wissen.
Gib keine Antwortmöglichkeiten an.
`, time.Now().Format("02.01.2006"))
	return c.query(prompt)
}

// AnswerIsCorrect asks the model for a Richtig/Falsch verdict. An unreachable
// API grades as incorrect.
func (c *Client) AnswerIsCorrect(question, answer string) bool {
	prompt := fmt.Sprintf(`
Bewerte die Antwort auf eine Quizfrage. Antworte nur mit "Richtig" oder "Falsch".
Prüfe die Fakten genau.
Frage: "%s"
`, question)
	response := c.query(prompt, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: answer,
	})
	c.log.Info("answer graded", zap.String("verdict", response))
	return strings.EqualFold(strings.TrimSpace(response), "richtig")
}

func (c *Client) ChallengeWonMessage(botName, name, scores, question, answer string) string {
	prompt := fmt.Sprintf(`
Du bist %s.
Weil %s die Quizfrage richtig beantwortet hat, hat er einen Punkt erhalten.
Lobe %s für die Antwort, mache dich über die übrigen Teilnehmer lustig.
Gib Fun-Facts zu der Frage und der Antwort.

- Die Quizfrage lautete: "%s"
- Die Antwort von %s war: "%s"
- Aktuelle Punktzahl:
%s
`, botName, name, name, question, name, answer, scores)
	return c.query(prompt)
}

func (c *Client) ChallengeLostMessage(name, question, answer string) string {
	prompt := fmt.Sprintf(`
Weil %s die Quizfrage nicht richtig beantwortet hat, hat er einen Punkt verloren und du einen Punkt erhalten.
Mache dich über die Antwort von %s lustig. Gib NICHT die richtige Antwort an.

- Die Quizfrage lautete: "%s"
- Die Antwort von %s war: "%s"
`, name, name, question, name, answer)
	return c.query(prompt)
}
