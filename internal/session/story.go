package session

import (
	"math/rand"
	"strings"
)

// lands are the backdrops a poster story can reference. Which one a
// session gets is a stable function of its class and choice, so
// reprinting a poster tells the same tale.
var lands = [4]string{
	"a broken wagon at a fork in the road",
	"a mine shaft entrance",
	"distant mountain swamplands",
	"a cabin by a stream",
}

// headlines maps a choice index (class*4 + deed) to its poster headline.
var headlines = [16]string{
	"High Noon Reckoning",
	"The Town's Shield",
	"Whiskey & Bruised Knuckles",
	"No Mercy, No Innocents",
	"The Mayor's Losing Hand",
	"A Fortune for the Folk",
	"The Serpent's Swindle",
	"The Gunpowder Gambit",
	"The Tycoon's Treasure",
	"The Marshal's Keys",
	"A Jewel for Justice",
	"The Great Candy Caper",
	"Mansion in Flames",
	"A Fiery Tune",
	"Ashes for my Enemies",
	"Christmas Inferno",
}

const fallbackHeadline = "A Legend is Born"

// captions holds the story variants per choice. Every variant contains
// a {land} placeholder filled in at generation time.
var captions = [16][2]string{
	{ // gunslinger, high noon
		"WANTED: DEAD OR ALIVE\nFor settling disputes the old-fashioned way.\nLast seen at high noon near {land}.\nAnswers only to their own code.",
		"WANTED FOR DUELING\nThis gunslinger's draw is faster than a lightning strike.\nLeft a rival staring at the sun near {land}.\nDo not challenge.",
	},
	{ // gunslinger, protector
		"WANTED FOR VIGILANTISM\nKnown to appoint themself judge, jury, and protector.\nLast seen defending townsfolk near {land}.\nConsiders the law a suggestion.",
		"NOTICE: THE TOWN'S GUARDIAN\nStands between the innocent and the wicked.\nLast seen making the roads safe near {land}.\nA hero to many, a target for some.",
	},
	{ // gunslinger, brawler
		"APPROACH WITH CAUTION\nWanted for brawling and disorderly conduct.\nPrefers to let their fists do the talking.\nLast seen causing a ruckus near {land}.",
		"WANTED: FOR TAVERN TERROR\nHas a taste for cheap whiskey and expensive fights.\nSettled a disagreement the hard way near {land}.\nKnown to have a mean right hook.",
	},
	{ // gunslinger, ruthless
		"WANTED: RUTHLESS KILLER\nFor crimes against humanity and common decency.\nNo one is safe from their bloodlust.\nLast seen leaving bodies near {land}.",
		"BEWARE THE EXECUTIONER\nThis gunslinger believes in only one verdict: guilty.\nLeft no survivors to tell the tale near {land}.\nShows no mercy, expects none.",
	},
	{ // merchant, poker
		"WANTED FOR CRIMES OF CUNNING\nThis smooth talker won a town charter in a poker game.\nAll deals should be considered suspect.\nLast known location: {land}.",
		"SOUGHT FOR QUESTIONING\nRegarding a suspicious hand of five aces.\nThe former mayor is demanding a recount.\nThe incident occurred near {land}.",
	},
	{ // merchant, charity
		"SOUGHT FOR QUESTIONING\nRegarding suspicious and disruptive charity.\nKnown for upending the local economy.\nLast seen distributing their fortune near {land}.",
		"WANTED: ECONOMIC ANARCHIST\nThis so-called 'benefactor' is devaluing local currency.\nTheir generosity is a threat to the natural order.\nLast seen making it rain near {land}.",
	},
	{ // merchant, snake oil
		"WANTED FOR FRAUD\nSo slick they could sell a mirage to a man dying of thirst.\nPeddles elixirs of questionable origin.\nLast spotted near {land}.",
		"BEWARE THE SILVER TONGUE\nThis charlatan's promises are as empty as their bottles.\nPulled off their greatest swindle near {land}.\nWill sell you the rope to hang yourself with.",
	},
	{ // merchant, gunpowder
		"WANTED: MONOPOLIST\nFor cornering the market on all things that go 'BOOM'.\nThis merchant's ambition is a threat to public safety.\nOperates out of {land}.",
		"DANGEROUS INDIVIDUAL\nControls the flow of gunpowder and lead.\nEffectively holds the entire territory hostage.\nTheir main stockpile is near {land}.",
	},
	{ // thief, tycoon
		"WANTED FOR 'REDISTRIBUTION'\nA folk hero to some, a menace to the rich.\nLiberates treasure from the undeserving.\nLast known score occurred near {land}.",
		"SOUGHT FOR GRAND LARCENY\nTargeted the holdings of a corrupt railroad baron.\nThe stolen goods have not been recovered.\nLast seen celebrating near {land}.",
	},
	{ // thief, jailbreak
		"SOUGHT FOR AIDING FUGITIVES\nValues loyalty to their crew above the law.\nOrchestrated a brazen jailbreak near {land}.\nConsidered armed and resourceful.",
		"REWARD FOR CAPTURE\nOf the mastermind behind the {land} jailbreak.\nMade a mockery of the local law enforcement.\nLoyal, cunning, and dangerous.",
	},
	{ // thief, jewel return
		"WANTED... FOR RETURNING STOLEN GOODS?\nAn unpredictable agent of justice.\nTheir strange reversal of fortune took place near {land}.\nMotive: Unknown.",
		"BEWARE THE GHOST THIEF\nSteals from the guilty, returns to the innocent.\nTheir latest act of strange justice occurred near {land}.\nOperates outside of any known law.",
	},
	{ // thief, candy
		"WANTED FOR PETTY CRIMES\nThis villain's depravity knows no bounds.\nTheir last heist involved candy and babies.\nApprehend for the sake of decency near {land}.",
		"CRIME OF THE CENTURY\nWanted for a brazen daylight candy robbery.\nThe victims were unarmed and mostly toothless.\nLast seen with a bulging sack near {land}.",
	},
	{ // arsonist, mansion
		"WANTED FOR ARSON\nDispenses fiery justice against corrupt officials.\nThe mayor's mansion near {land} was their last target.\nBelieved to be armed with kerosene.",
		"SOUGHT: POLITICAL PYRO\nUses flames to make their political statements.\nThe target was a symbol of corruption.\nLast seen watching the glow from {land}.",
	},
	{ // arsonist, piano
		"WANTED: PYROMANIAC\nAn artist whose medium is chaos and flame.\nLast seen turning a saloon piano into a bonfire.\nSpotted admiring their work near {land}.",
		"BEWARE THE FIREBUG\nFinds beauty in the blaze, and music in the crackle.\nTheir latest masterpiece was a piano near {land}.\nDo not leave flammable objects unattended.",
	},
	{ // arsonist, hideout
		"WANTED: GANG WARFARE\nThis pyromaniac escalated a feud to devastating levels.\nBurned a rival gang's hideout to the ground near {land}.\nConsidered extremely dangerous.",
		"SOUGHT FOR MASS ARSON\nSettled old scores with fire and vengeance.\nLeft nothing but ashes of their enemies near {land}.\nThis individual takes no prisoners.",
	},
	{ // arsonist, christmas tree
		"WANTED FOR HOLIDAY HOOLIGANISM\nThis yuletide troublemaker lit up the season a bit too literally.\nTurned the town Christmas tree into the world's largest candle near {land}.\nSuspect may be a Grinch in disguise.",
		"SOUGHT: THE HOLIDAY ARSONIST\nRuined Christmas faster than finding coal in your stocking.\nWitnesses report cackling and possible eggnog involvement near {land}.\nMay have been singing carols while fleeing.",
	},
}

var fallbackCaptions = [2]string{
	"WANTED: FOR REASONS UNKNOWN\nThis mysterious figure was last seen near {land}.\nTheir motives are unclear.\nApproach with extreme caution.",
	"BE ADVISED\nAn unknown agent is operating in the area.\nTheir last known position was {land}.\nAssume nothing. Question everything.",
}

// GenerateStory fills in StoryText and Headline from the session's class
// and choice, picking one caption variant at random. It does nothing
// until both class and choice are set.
func (s *Session) GenerateStory() {
	s.generateStory(rand.Intn(len(captions[0])))
}

func (s *Session) generateStory(variant int) {
	if s.Class == nil || s.Choice == nil {
		return
	}

	land := "the empty wilderness"
	if idx := (*s.Class + *s.Choice) % len(lands); idx >= 0 {
		land = lands[idx]
	}

	choice := *s.Choice
	var caption, headline string
	if choice >= 0 && choice < len(captions) {
		caption = captions[choice][variant]
		headline = headlines[choice]
	} else {
		caption = fallbackCaptions[variant]
		headline = fallbackHeadline
	}

	story := strings.ReplaceAll(caption, "{land}", land)
	s.StoryText = &story
	s.Headline = &headline
}
