package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-roadmap/internal/quiz"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take a knowledge check for a skill",
	Long:  "Generates a short-response question for one skill of a topic, reads your answer, and grades it via the reasoning service. Pass --answer to grade non-interactively.",
	RunE:  runQuiz,
}

var (
	quizTopic      string
	quizSkill      string
	quizAnswer     string
	quizConfigPath string
)

func init() {
	quizCmd.Flags().StringVarP(&quizTopic, "topic", "t", "", "Topic the skill belongs to (required)")
	quizCmd.Flags().StringVarP(&quizSkill, "skill", "s", "", "Skill to be quizzed on (required)")
	quizCmd.Flags().StringVarP(&quizAnswer, "answer", "a", "", "Answer to grade (default: read from stdin)")
	quizCmd.Flags().StringVar(&quizConfigPath, "config", "", "Path to JSON config file")

	if err := quizCmd.MarkFlagRequired("topic"); err != nil {
		panic(fmt.Sprintf("failed to mark topic flag as required: %v", err))
	}
	if err := quizCmd.MarkFlagRequired("skill"); err != nil {
		panic(fmt.Sprintf("failed to mark skill flag as required: %v", err))
	}

	rootCmd.AddCommand(quizCmd)
}

func runQuiz(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadRuntimeConfig(quizConfigPath)
	if err != nil {
		return err
	}

	client, err := newReasoningClient(ctx, cfg.APIKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	session := quiz.NewSession(client, quizTopic)

	question, err := session.Question(ctx, quizSkill)
	if err != nil {
		return fmt.Errorf("failed to generate question: %w", err)
	}
	fmt.Printf("Question: %s\n", question)

	answer := quizAnswer
	if answer == "" {
		fmt.Print("Answer: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read answer: %w", err)
		}
		answer = strings.TrimSpace(line)
	}
	if answer == "" {
		return fmt.Errorf("no answer provided")
	}

	grade, err := session.GradeAnswer(ctx, quizSkill, question, answer)
	if err != nil {
		return fmt.Errorf("failed to grade answer: %w", err)
	}

	switch grade.Pass {
	case quiz.Pass:
		fmt.Println("Result: pass")
	case quiz.PartialPass:
		fmt.Println("Result: partial pass")
	default:
		fmt.Println("Result: fail")
	}
	if grade.Reason != nil && *grade.Reason != "" {
		fmt.Printf("Feedback: %s\n", *grade.Reason)
	}
	return nil
}
