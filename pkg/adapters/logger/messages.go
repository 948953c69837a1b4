package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("pt", l10n.LexiconMap{
		// Toolchain
		"Checking media toolchain...":                                       "Verificando ferramentas FFmpeg...",
		"ffmpeg and ffprobe found on the system PATH.":                      "FFmpeg e FFprobe encontrados no PATH do sistema.",
		"ffmpeg and ffprobe loaded from: %s":                                "FFmpeg e FFprobe carregados do caminho salvo: %s",
		"ffmpeg loaded from: %s":                                            "FFmpeg carregado de: %s",
		"ffprobe loaded from: %s":                                           "FFprobe carregado de: %s",
		"The toolchain folder was saved for future runs.":                   "O caminho das ferramentas foi salvo para futuras execuções.",
		"Warning: ffmpeg/ffprobe not found or the saved folder is invalid.": "Aviso: FFmpeg/FFprobe não encontrados ou o caminho salvo é inválido.",
		"Details: %s":                                                       "Detalhes: %s",
		"'%s' not found in '%s'.":                                           "'%s' não encontrado em '%s'.",
		"Error checking '%s' in '%s': %s":                                   "Erro ao verificar '%s' em '%s': %s",
		"'%s' not found or failing on the system PATH: %s":                  "'%s' não encontrado ou com erro no PATH do sistema: %s",
		"Could not load the saved toolchain folder: %s":                     "Erro ao carregar o caminho salvo das ferramentas: %s",
		"Could not save the toolchain folder: %s":                           "Erro ao salvar o caminho das ferramentas: %s",

		// Probe
		"Error getting the video duration with ffprobe: %s": "Erro ao obter duração do vídeo com ffprobe: %s",
		"Could not convert the duration to a number: %s":    "Não foi possível converter a duração para número: %s",
		"Unexpected error getting the video duration: %s":   "Erro inesperado ao obter duração do vídeo: %s",

		// Sampler
		"Error: the video file '%s' was not found.":                                         "Erro: O arquivo de vídeo '%s' não foi encontrado.",
		"Creating output directory: %s":                                                     "Criando diretório de saída: %s",
		"Warning: could not extract 3 digits from the video name. Using '%s' as the default.": "Aviso: Não foi possível extrair 3 dígitos do nome do vídeo. Usando '%s' como padrão.",
		"Could not determine the video duration. Aborting random extraction.":               "Não foi possível determinar a duração do vídeo. Abortando extração aleatória.",
		"Video duration: %.2f seconds.":                                                     "Duração do vídeo: %.2f segundos.",
		"Extracting %d random frames...":                                                    "Extraindo %d frames aleatórios...",
		"Extraction interrupted by the user.":                                               "Extração interrompida pelo usuário.",
		"Extracting random frame at %.2fs to '%s'":                                          "Extraindo frame aleatório em %.2fs para '%s'",
		"Frame %d saved":                                                                    "Frame %d salvo",
		"An unexpected error occurred while extracting the frame: %s":                       "Ocorreu um erro inesperado ao extrair frame: %s",
		"An error occurred while extracting the frame at %.2fs.":                            "Ocorreu um erro ao extrair o frame em %.2fs.",
		"Command: %s":                                                                       "Comando: %s",
		"--- Output (stdout) ---\n%s":                                                       "--- Saída (stdout) ---\n%s",
		"--- Error (stderr) ---\n%s":                                                        "--- Erro (stderr) ---\n%s",
		"No specific error output was captured (stderr was empty).":                         "Nenhuma saída de erro específica foi capturada (stderr estava vazio).",
		"Random extraction finished. %d of %d frames saved in: %s":                          "Extração aleatória concluída. %d de %d frames salvos em: %s",

		// Batch
		"--- Starting extraction for: %s ---": "--- Iniciando extração para: %s ---",
		"Extraction of '%s' failed: %s":       "Falha na extração de '%s': %s",
		"Stop signal sent...":                 "Sinal de parada enviado...",
		"%d videos remain in the queue.":      "%d vídeos permanecem na fila.",
		"--- Extraction queue finished ---":   "--- Fila de extração concluída ---",
	})
}
