package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sankalpm/applybot/internal/domain/models"
)

type aiClient interface {
	GenerateResponse(ctx context.Context, request string) (string, error)
}

// CoverLetters produces application cover letters. Without an AI client it
// falls back to a plain template so dispatch never blocks on generation.
type CoverLetters struct {
	aiClient aiClient
}

func NewCoverLetters(aiClient aiClient) *CoverLetters {
	return &CoverLetters{aiClient: aiClient}
}

func (c *CoverLetters) Generate(ctx context.Context, job *models.Job, profile *models.UserProfile) (string, error) {

	if c.aiClient == nil {
		return c.templateLetter(job, profile), nil
	}

	letter, err := c.aiClient.GenerateResponse(ctx, c.coverLetterRequest(job, profile))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(letter), nil
}

func (c *CoverLetters) coverLetterRequest(job *models.Job, profile *models.UserProfile) (request string) {

	request = "Job title: " + job.Title
	request += " Company: " + job.Company

	if job.Description != "" {
		request += " Description: " + job.Description
	}

	request += " Candidate: " + profile.Name
	if skills := profile.Skills.AllSkills(); len(skills) > 0 {
		request += " Key skills: " + strings.Join(skills, ", ")
	}

	request += " Write a concise, specific cover letter (under 250 words) from the candidate " +
		"for this job. Mention only skills the candidate actually has. Return plain text without a subject line."
	return request
}

func (c *CoverLetters) templateLetter(job *models.Job, profile *models.UserProfile) string {
	skills := strings.Join(profile.Skills.AllSkills(), ", ")
	return fmt.Sprintf(
		"Dear %s hiring team,\n\n"+
			"I am writing to apply for the %s position. My background covers %s, "+
			"which aligns closely with the requirements in your posting.\n\n"+
			"I would welcome the chance to discuss how I can contribute.\n\n"+
			"Best regards,\n%s",
		job.Company, job.Title, skills, profile.Name)
}
