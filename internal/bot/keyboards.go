package bot

import (
	"fmt"

	"github.com/dvloznov/gastobot/internal/domain"
	"github.com/dvloznov/gastobot/internal/token"
)

// Fixed control identifiers. These are a bit-exact contract shared with the
// chat transport; renaming one silently orphans every button already visible
// in users' chats.
const (
	actionSummary    = "resumo"
	actionTotal      = "total"
	actionAnalyze    = "analise"
	actionHelp       = "ajuda"
	actionAdd        = "adicionar"
	actionCategorize = "categorizar"
	actionCancel     = "cancel_expense"

	confirmPrefix = "confirm_"
	removePrefix  = "remove_"
)

// mainKeyboard is the default four-button menu.
func mainKeyboard() Keyboard {
	return Keyboard{
		{
			{Label: "📊 Resumo Diário", Data: actionSummary},
			{Label: "💰 Total Mensal", Data: actionTotal},
		},
		{
			{Label: "🧠 Análise IA", Data: actionAnalyze},
			{Label: "❓ Ajuda", Data: actionHelp},
		},
	}
}

// summaryKeyboard follows a rendered summary.
func summaryKeyboard() Keyboard {
	return Keyboard{
		{
			{Label: "💰 Total Mensal", Data: actionTotal},
			{Label: "🧠 Análise IA", Data: actionAnalyze},
		},
		{
			{Label: "➕ Adicionar Gasto", Data: actionAdd},
			{Label: "⬅️ Voltar", Data: actionHelp},
		},
	}
}

// broadcastKeyboard follows a scheduled summary; categorization is only
// offered once there are enough entries to make buckets worthwhile.
func broadcastKeyboard(entryCount int) Keyboard {
	var kb Keyboard
	if entryCount >= 5 {
		kb = append(kb, []Button{{Label: "📊 Categorizar Gastos", Data: actionCategorize}})
	}
	kb = append(kb, []Button{
		{Label: "💰 Ver Total", Data: actionTotal},
		{Label: "➕ Adicionar", Data: actionAdd},
	})
	return kb
}

// confirmKeyboard carries the encoded draft inside the confirm control.
func confirmKeyboard(draft domain.Draft) Keyboard {
	return Keyboard{
		{
			{Label: "✅ Sim, registrar", Data: confirmPrefix + token.Encode(draft)},
			{Label: "❌ Não, cancelar", Data: actionCancel},
		},
	}
}

// multiCommittedKeyboard follows a successful split registration, where a
// single-entry remove button would be ambiguous.
func multiCommittedKeyboard() Keyboard {
	return Keyboard{
		{
			{Label: "📊 Ver Resumo", Data: actionSummary},
			{Label: "➕ Adicionar Mais", Data: actionAdd},
		},
	}
}

// committedKeyboard follows a successful registration.
func committedKeyboard(id int64) Keyboard {
	return Keyboard{
		{
			{Label: "📊 Ver Resumo", Data: actionSummary},
			{Label: "➕ Adicionar Mais", Data: actionAdd},
		},
		{
			{Label: "❌ Remover", Data: fmt.Sprintf("%s%d", removePrefix, id)},
		},
	}
}
