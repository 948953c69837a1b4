// Package main provides localization for the framepick CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Portuguese translations for CLI messages.
	l10n.Register("pt", l10n.LexiconMap{
		// Flag categories
		"Output":        "Saída",
		"Extraction":    "Extração",
		"Toolchain":     "Ferramentas",
		"Configuration": "Configuração",
		"Logging":       "Log",

		// Root command
		"Extract random still frames from videos": "Extrai frames aleatórios de vídeos",
		"framepick extracts randomly chosen still frames from each queued video using ffmpeg and ffprobe.": "O framepick extrai frames escolhidos aleatoriamente de cada vídeo da fila usando ffmpeg e ffprobe.",

		// Commands
		"Extract random frames from one or more videos": "Extrai frames aleatórios de um ou mais vídeos",
		"Check where ffmpeg and ffprobe are found":      "Verifica onde ffmpeg e ffprobe são encontrados",

		// Flags
		"Output directory (default: the last one used)":             "Diretório de saída (padrão: o último usado)",
		"File naming scheme (coded, timestamped)":                   "Esquema de nomes dos arquivos (coded, timestamped)",
		"Write a Markdown summary of the run to this file":          "Grava um resumo em Markdown da execução neste arquivo",
		"Number of random frames per video (default: 300)":          "Número de frames aleatórios por vídeo (padrão: 300)",
		"JPEG quality (1-31, lower is better)":                      "Qualidade JPEG (1-31, menor é melhor)",
		"Folder containing ffmpeg and ffprobe (saved on success)":   "Pasta que contém ffmpeg e ffprobe (salva em caso de sucesso)",
		"YAML configuration file":                                   "Arquivo de configuração YAML",
		"Preferences file (default: framepick.yaml)":                "Arquivo de preferências (padrão: framepick.yaml)",
		"Log level (debug, info, warn, error)":                      "Nível de log (debug, info, warn, error)",
		"Suppress all log output":                                   "Suprime toda a saída de log",
		"Show a progress bar per video when attached to a terminal": "Mostra uma barra de progresso por vídeo em um terminal",

		// Run messages
		"Could not read the preferences file: %s":  "Erro ao carregar ou decodificar o arquivo de configuração: %s",
		"Could not save the preferences file: %s":  "Erro ao salvar o arquivo de configuração: %s",
		"Could not write the summary: %s":          "Não foi possível gravar o resumo: %s",
		"Summary saved to %s":                      "Resumo salvo em %s",
		"%d of %d videos could not be processed.": "%d de %d vídeos não puderam ser processados.",

		// Summary labels
		"Extraction Summary":      "Resumo da Extração",
		"Generated":               "Gerado em",
		"Version":                 "Versão",
		"Run":                     "Execução",
		"Item":                    "Item",
		"Value":                   "Valor",
		"Run ID":                  "ID da execução",
		"Started":                 "Início",
		"Elapsed":                 "Duração total",
		"Stopped":                 "Interrompida",
		"Frames saved":            "Frames salvos",
		"Settings":                "Configurações",
		"Output directory":        "Diretório de saída",
		"Frames per video":        "Frames por vídeo",
		"Naming":                  "Nomes",
		"Quality":                 "Qualidade",
		"Videos":                  "Vídeos",
		"Video":                   "Vídeo",
		"Status":                  "Situação",
		"Frames":                  "Frames",
		"Duration":                "Duração",
		"Not processed":           "Não processados",
		"No video was processed.": "Nenhum vídeo foi processado.",
		"yes":                     "sim",
		"no":                      "não",
		"completed":               "concluído",
		"cancelled":               "interrompido",
		"missing":                 "não encontrado",
		"probe_failed":            "duração desconhecida",
		"failed":                  "falhou",
	})
}
