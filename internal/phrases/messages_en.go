package phrases

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, string(StatusBypass), "Test mode: client connection skipped.")
	message.SetString(lang, string(StatusWaiting), "Waiting for the client to connect...")
	message.SetString(lang, string(StatusConnected), "Client connected!")

	message.SetString(lang, string(IntroWelcome), "Welcome to the FIFA 11+ training programme")
	message.SetString(lang, string(DemoTitle), "Exercise: single-leg stance for 30 seconds")

	message.SetString(lang, string(PrepGetReady), "Get ready for the exercise!")
	message.SetString(lang, string(PrepStandLeft), "Stand on your LEFT leg")
	message.SetString(lang, string(PrepStandRight), "Stand on your RIGHT leg")

	message.SetString(lang, string(HoldBalance), "Hold your balance for 30 seconds!")
	message.SetString(lang, string(HoldRestart), "Balance lost, repeat in 5 seconds!")

	message.SetString(lang, string(ReleaseBothFeet), "Stand on BOTH feet")
	message.SetString(lang, string(SwitchLeft), "Stand on your LEFT leg.")
	message.SetString(lang, string(SwitchRight), "Stand on your RIGHT leg.")
	message.SetString(lang, string(NextExercise), "Next exercise - test")
	message.SetString(lang, string(SessionComplete), "Moving on to the next exercise")

	message.SetString(lang, "zone.1", "You are doing great!")
	message.SetString(lang, "zone.2", "Stand correctly")
	message.SetString(lang, "zone.3", "Shift your weight forward!")
	message.SetString(lang, "zone.4", "Shift your weight backward!")
	message.SetString(lang, "zone.5", "Shift your weight to the right!")
	message.SetString(lang, "zone.6", "Shift your weight to the left!")
	message.SetString(lang, "zone.7", "Balance lost, start over!")
	message.SetString(lang, string(ZoneUnknown), "Unknown zone.")
}
