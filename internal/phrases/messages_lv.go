package phrases

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.Latvian

	message.SetString(lang, string(StatusBypass), "Test režīms: klienta savienojums izlaists.")
	message.SetString(lang, string(StatusWaiting), "Gaida savienojumu ar klientu...")
	message.SetString(lang, string(StatusConnected), "Klients savienots!")

	message.SetString(lang, string(IntroWelcome), "Esi sveicināts FIFA11+ treniņu programmā")
	message.SetString(lang, string(DemoTitle), "Vingrojums: Stāvēšana uz vienas kājas 30 sekundes")

	message.SetString(lang, string(PrepGetReady), "Sagatavojies uzdevumam!")
	message.SetString(lang, string(PrepStandLeft), "Nostājies uz KREISĀS kājas")
	message.SetString(lang, string(PrepStandRight), "Nostājies uz LABĀS kājas")

	message.SetString(lang, string(HoldBalance), "Noturi līdzsvaru 30 sekundes!")
	message.SetString(lang, string(HoldRestart), "Balanss zaudēts, atkārtojiet pēc 5 sekundēm!")

	message.SetString(lang, string(ReleaseBothFeet), "Nostājies uz ABĀM kājām")
	message.SetString(lang, string(SwitchLeft), "Nostājies uz KREISĀS kājas.")
	message.SetString(lang, string(SwitchRight), "Nostājies uz LABĀS kājas.")
	message.SetString(lang, string(NextExercise), "Nākamais vingrinājums - test")
	message.SetString(lang, string(SessionComplete), "Pārejam uz nākamo vingrinājumu")

	message.SetString(lang, "zone.1", "Tev lieliski izdodas!")
	message.SetString(lang, "zone.2", "Nostāties pareizi")
	message.SetString(lang, "zone.3", "Pārvirzi svaru uz priekšu!")
	message.SetString(lang, "zone.4", "Pārvirzi svaru uz aizmuguri!")
	message.SetString(lang, "zone.5", "Pavirzi svaru pa labi!")
	message.SetString(lang, "zone.6", "Pavirzi svaru pa kreisi!")
	message.SetString(lang, "zone.7", "Līdzsvars zaudēts, sāc no sākuma!")
	message.SetString(lang, string(ZoneUnknown), "Nezināma zona.")
}
