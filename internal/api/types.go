package api

type AccountDTO struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

type SummonerDTO struct {
	ID            string `json:"id"`
	AccountID     string `json:"accountId"`
	PUUID         string `json:"puuid"`
	ProfileIconID int    `json:"profileIconId"`
	RevisionDate  int64  `json:"revisionDate"`
	SummonerLevel int64  `json:"summonerLevel"`
}

type LeagueEntryDTO struct {
	LeagueID     string `json:"leagueId"`
	SummonerID   string `json:"summonerId"`
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	HotStreak    bool   `json:"hotStreak"`
	Veteran      bool   `json:"veteran"`
	FreshBlood   bool   `json:"freshBlood"`
	Inactive     bool   `json:"inactive"`
}

// FindQueue returns the entry for queueType, if the player is placed in it.
func FindQueue(entries []LeagueEntryDTO, queueType string) (LeagueEntryDTO, bool) {
	for _, e := range entries {
		if e.QueueType == queueType {
			return e, true
		}
	}
	return LeagueEntryDTO{}, false
}

type LeagueMatchDTO struct {
	Metadata struct {
		MatchID      string   `json:"matchId"`
		Participants []string `json:"participants"`
	} `json:"metadata"`
	Info struct {
		GameCreation       int64                  `json:"gameCreation"` // ms
		GameStartTimestamp int64                  `json:"gameStartTimestamp"`
		GameDuration       int64                  `json:"gameDuration"`
		QueueID            int                    `json:"queueId"`
		Participants       []LeagueParticipantDTO `json:"participants"`
	} `json:"info"`
}

type LeagueParticipantDTO struct {
	PUUID                     string `json:"puuid"`
	SummonerID                string `json:"summonerId"`
	ChampionName              string `json:"championName"`
	Kills                     int    `json:"kills"`
	Deaths                    int    `json:"deaths"`
	Assists                   int    `json:"assists"`
	Win                       bool   `json:"win"`
	GameEndedInEarlySurrender bool   `json:"gameEndedInEarlySurrender"`
}

type TFTMatchDTO struct {
	Metadata struct {
		MatchID      string   `json:"match_id"`
		Participants []string `json:"participants"`
	} `json:"metadata"`
	Info struct {
		GameDatetime int64               `json:"game_datetime"` // ms
		GameLength   float64             `json:"game_length"`
		QueueID      int                 `json:"queue_id"`
		Participants []TFTParticipantDTO `json:"participants"`
	} `json:"info"`
}

type TFTParticipantDTO struct {
	PUUID             string `json:"puuid"`
	Placement         int    `json:"placement"`
	Level             int    `json:"level"`
	LastRound         int    `json:"last_round"`
	PlayersEliminated int    `json:"players_eliminated"`
}
