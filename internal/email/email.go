// Package email delivers plain-text financial reports over SMTP.
package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/finpath/finpath/internal/config"
	"github.com/finpath/finpath/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendAssessmentReport mails a summary of a health assessment and the
// two-path simulation it parametrized.
func (s *Sender) SendAssessmentReport(to, username string, assessment models.HealthAssessment, result models.SimulationResult) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Your financial health report — score %d/100", assessment.Score)
	e.Text = []byte(buildReportBody(username, assessment, result))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send report to %s: %v", to, err)
		return fmt.Errorf("failed to send report: %w", err)
	}

	s.logger.Infof("Report sent to %s: %s", to, e.Subject)
	return nil
}

func buildReportBody(username string, assessment models.HealthAssessment, result models.SimulationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", username)
	fmt.Fprintf(&b, "Your overall financial health score is %d out of 100.\n\n", assessment.Score)

	if len(assessment.Issues) == 0 {
		b.WriteString("No issues were detected. Keep it up.\n")
	} else {
		b.WriteString("Detected issues:\n")
		for _, issue := range assessment.Issues {
			fmt.Fprintf(&b, "- [%s] %s\n", issue.Severity, issue.Detail)
		}
		b.WriteString("\nAction plan:\n")
		for i, rec := range assessment.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec.Action)
		}
	}

	fmt.Fprintf(&b, "\nProjection over %d months:\n", result.HorizonMonths)
	fmt.Fprintf(&b, "Current path final net worth:  %s\n", result.Current.FinalNetWorth.StringFixed(2))
	fmt.Fprintf(&b, "Improved path final net worth: %s\n", result.Improved.FinalNetWorth.StringFixed(2))
	fmt.Fprintf(&b, "Difference:                    %s\n", result.NetWorthDifference.StringFixed(2))

	if m := result.Improved.Milestones.DebtFreeMonth; m != nil {
		fmt.Fprintf(&b, "On the improved path you are debt-free in month %d.\n", *m)
	}
	if m := result.Improved.Milestones.EmergencyFundMonth; m != nil {
		fmt.Fprintf(&b, "Your emergency fund reaches six months of expenses in month %d.\n", *m)
	}

	b.WriteString("\nBest regards,\nfinpath")
	return b.String()
}
