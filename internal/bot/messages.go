package bot

// User-facing texts. The bot speaks Portuguese; control identifiers handled
// in callbacks.go are a fixed contract and must not be translated.

const (
	msgWelcome = "Bem-vindo ao Bot de Controle de Gastos! 💰\n\n" +
		"Para registrar um gasto, você pode:\n" +
		"• Usar formato simples: \"Café 5.50\" ou \"Pizza 25\"\n" +
		"• Usar linguagem natural: \"Gastei 35 com jantar\" ou \"Paguei 12,50 pelo almoço\"\n\n" +
		"Use os botões abaixo ou os comandos:\n" +
		"/start - Exibe esta mensagem de ajuda\n" +
		"/resumo - Exibe o resumo dos gastos de hoje\n" +
		"/total - Exibe o total gasto este mês\n" +
		"/analise - Análise dos seus gastos recentes usando IA\n" +
		"/remove [id] - Remove um gasto pelo seu ID"

	msgHelp = "Como usar o Bot de Controle de Gastos 💰\n\n" +
		"1️⃣ Para registrar um gasto:\n" +
		"Você pode usar um dos seguintes formatos:\n" +
		"• Formato simples: \"Café 5.50\" ou \"Pizza R$25\"\n" +
		"• Linguagem natural: \"Gastei 15 com almoço\" ou\n" +
		"  \"Paguei 45 reais pelo Uber hoje\"\n\n" +
		"2️⃣ Para ver o resumo diário:\n" +
		"Clique no botão \"📊 Resumo Diário\" ou use /resumo\n\n" +
		"3️⃣ Para ver o total mensal:\n" +
		"Clique no botão \"💰 Total Mensal\" ou use /total\n\n" +
		"4️⃣ Para análise de gastos com IA:\n" +
		"Clique no botão \"🧠 Análise IA\" ou use /analise\n\n" +
		"5️⃣ Para remover um gasto:\n" +
		"Use o comando /remove [id] ou use o botão ❌\n" +
		"após registrar um gasto"

	msgAddPrompt = "Informe um novo gasto no formato:\n\"Nome do produto Preço\"\n\n" +
		"Exemplos:\n- Café 5.50\n- Pizza R$25\n- Uber 15,90"

	msgInterpreting = "🧠 Interpretando sua mensagem... Aguarde um momento."
	msgAnalyzing    = "🧠 Analisando seus gastos... Aguarde um momento."
	msgCategorizing = "🧠 Categorizando seus gastos... Aguarde um momento."

	msgNotUnderstood = "Não consegui entender sua mensagem. Por favor, use um formato como:\n" +
		"\"Café 5.50\" ou \"Pizza R$25\" ou \"Almoço R$15,90\""
	msgInvalidValues = "Os valores informados não são válidos. Informe um valor maior que zero " +
		"e uma quantidade de pelo menos 1, por exemplo: \"Café 5.50\"."
	msgServiceDown = "Não foi possível processar sua mensagem neste momento. Tente novamente mais tarde."

	msgCancelled = "Operação cancelada. Tente novamente com um formato como:\n\"Café 5.50\" ou \"Pizza R$25\""
	msgBadToken  = "Não consegui recuperar essa confirmação. Envie o gasto novamente, por favor."

	msgNoExpensesToday    = "Você não registrou nenhum gasto hoje."
	msgNoExpensesMonth    = "Você não registrou nenhum gasto este mês."
	msgNoExpensesAnalyze  = "Você não possui gastos registrados para análise."
	msgNoExpensesCategory = "Não há gastos para categorizar."

	msgAnalysisFailed = "Não foi possível gerar a análise neste momento. Tente novamente mais tarde."
	msgCategoryFailed = "Não foi possível categorizar seus gastos. Tente novamente mais tarde."

	msgRemoveUsage  = "Uso correto: /remove [id]"
	msgRemoveBadID  = "ID inválido. Use /remove seguido do número ID do gasto."
	msgCommitFailed = "Ocorreu um erro ao registrar seu gasto. Tente novamente."
)
