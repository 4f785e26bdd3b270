package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"investiq_backend/internal/feature/riskanalysis/adapters/model"
	"investiq_backend/internal/feature/riskanalysis/domain/entity"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED"))

	labelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	boxStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)
)

func row(label, value string) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(fmt.Sprintf("%-16s", label)), value)
}

// renderAnalysis は分析結果をリスクの色で囲んだ要約として描画します。
func renderAnalysis(ticker string, a *entity.Analysis) string {
	risk := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(a.Color))

	lines := []string{
		titleStyle.Render(strings.ToUpper(ticker)) + "  " + risk.Render(a.Label),
		"",
		row("Price", fmt.Sprintf("%.2f", a.Price)),
		row("RSI", fmt.Sprintf("%.2f", a.Features.RSI)),
		row("MACD", fmt.Sprintf("%.4f", a.Features.MACD)),
		row("BB width", fmt.Sprintf("%.2f", a.Features.BBWidth)),
		row("Volatility 30d", fmt.Sprintf("%.2f", a.Features.Volatility30)),
		row("Volatility 90d", fmt.Sprintf("%.2f", a.Features.Volatility90)),
		row("Momentum", fmt.Sprintf("%.2f", a.Features.Momentum)),
		row("Daily return %", fmt.Sprintf("%.2f", a.Features.DailyReturnPct)),
		"",
		row("Probabilities", fmt.Sprintf("low %.1f%%  medium %.1f%%  high %.1f%%",
			a.Probabilities.Low, a.Probabilities.Medium, a.Probabilities.High)),
		"",
		a.Recommendation,
	}
	return boxStyle.BorderForeground(lipgloss.Color(a.Color)).Render(strings.Join(lines, "\n"))
}

func renderError(ticker, msg string) string {
	return fmt.Sprintf("%s %s", titleStyle.Render(strings.ToUpper(ticker)), errorStyle.Render(msg))
}

// renderArtifact はモデルアーティファクトの契約を描画します。
func renderArtifact(path string, a *model.Artifact) string {
	lines := []string{
		titleStyle.Render("Model artifact"),
		"",
		row("Path", path),
		row("Version", a.Version),
		row("Kind", a.Kind),
		row("Classes", joinOrDash(a.Classes)),
		row("Features", joinOrDash(a.Features)),
	}
	if p := a.IndicatorParams; p != nil {
		lines = append(lines,
			row("RSI window", fmt.Sprint(p.RSIWindow)),
			row("MACD", fmt.Sprintf("%d/%d/%d", p.MACDFast, p.MACDSlow, p.MACDSignal)),
			row("Bollinger", fmt.Sprintf("%d / %.1f", p.BollingerWindow, p.BollingerK)),
			row("Momentum", fmt.Sprint(p.MomentumPeriod)),
			row("Volatility", fmt.Sprintf("%d / %d", p.VolShortWindow, p.VolLongWindow)),
		)
	}
	if a.Forest != nil {
		lines = append(lines, row("Trees", fmt.Sprint(len(a.Forest.Trees))))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
