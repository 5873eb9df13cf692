package station

// Builtin is the default catalog: public German broadcasters streaming MP3.
var Builtin = []Station{
	{ID: "einslive", Name: "1Live", StreamURL: "https://wdr-1live-live.icecastssl.wdr.de/wdr/1live/live/mp3/128/stream.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/f/fb/WDR_1LIVE_Logo_2016.svg/512px-WDR_1LIVE_Logo_2016.svg.png", Region: "NRW", Genre: "Pop"},
	{ID: "wdr2", Name: "WDR 2", StreamURL: "https://wdr-wdr2-rheinruhr.icecastssl.wdr.de/wdr/wdr2/rheinruhr/mp3/128/stream.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/7/7b/WDR_2_Logo.svg/512px-WDR_2_Logo.svg.png", Region: "NRW", Genre: "Pop"},
	{ID: "wdr4", Name: "WDR 4", StreamURL: "https://wdr-wdr4-live.icecastssl.wdr.de/wdr/wdr4/live/mp3/128/stream.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/6/60/WDR_4_logo_2012.svg/512px-WDR_4_logo_2012.svg.png", Region: "NRW", Genre: "Schlager"},
	{ID: "wdr5", Name: "WDR 5", StreamURL: "https://wdr-wdr5-live.icecastssl.wdr.de/wdr/wdr5/live/mp3/128/stream.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/8/8a/WDR_5_Logo.svg/512px-WDR_5_Logo.svg.png", Region: "NRW", Genre: "Kultur"},
	{ID: "ndr2", Name: "NDR 2", StreamURL: "https://icecast.ndr.de/ndr/ndr2/hamburg/mp3/128/stream.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/3/33/NDR_Logo.svg/512px-NDR_Logo.svg.png", Region: "Nord", Genre: "Pop"},
	{ID: "ndr1", Name: "NDR 1 Nds", StreamURL: "https://icecast.ndr.de/ndr/ndr1niedersachsen/hannover/mp3/128/stream.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/3/33/NDR_Logo.svg/512px-NDR_Logo.svg.png", Region: "Nord", Genre: "Schlager"},
	{ID: "bayern3", Name: "Bayern 3", StreamURL: "https://dispatcher.rndfnk.com/br/br3/live/mp3/mid", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/0/09/Bayern3_Logo.svg/512px-Bayern3_Logo.svg.png", Region: "Bayern", Genre: "Pop"},
	{ID: "bayern1", Name: "Bayern 1", StreamURL: "https://dispatcher.rndfnk.com/br/br1/obb/mp3/mid", LogoURL: "https://api.ardmediathek.de/image-service/images/urn:ard:image:b366004f6196d70c?w=512", Region: "Bayern", Genre: "Schlager"},
	{ID: "dlf", Name: "Deutschlandfunk", StreamURL: "https://st01.sslstream.dlf.de/dlf/01/128/mp3/stream.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/5/5e/Deutschlandfunk_logo.svg/512px-Deutschlandfunk_logo.svg.png", Region: "Bundesweit", Genre: "Info"},
	{ID: "dlfkultur", Name: "DLF Kultur", StreamURL: "https://st02.sslstream.dlf.de/dlf/02/128/mp3/stream.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/5/5e/Deutschlandfunk_logo.svg/512px-Deutschlandfunk_logo.svg.png", Region: "Bundesweit", Genre: "Kultur"},
	{ID: "mdrjump", Name: "MDR Jump", StreamURL: "http://mdr-284320-0.cast.mdr.de/mdr/284320/0/mp3/high/stream.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/9/9a/MDR_Jump_Logo.svg/512px-MDR_Jump_Logo.svg.png", Region: "Mitte", Genre: "Pop"},
	{ID: "mdraktuell", Name: "MDR Aktuell", StreamURL: "http://mdr-284350-0.cast.mdr.de/mdr/284350/0/mp3/high/stream.mp3", LogoURL: "https://www.mdr.de/apple-touch-icon.png", Region: "Mitte", Genre: "Nachrichten"},
	{ID: "hr3", Name: "HR3", StreamURL: "http://hr-hr3-live.cast.addradio.de/hr/hr3/live/mp3/128/stream.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/6/6d/HR3_Logo.svg/512px-HR3_Logo.svg.png", Region: "Hessen", Genre: "Pop"},
	{ID: "swr3", Name: "SWR3", StreamURL: "https://liveradio.swr.de/sw282p3/swr3/play.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/8/8e/SWR3_Logo.svg/512px-SWR3_Logo.svg.png", Region: "Südwest", Genre: "Pop"},
	{ID: "radiosaw", Name: "Radio SAW", StreamURL: "https://stream.radiosaw.de/saw/mp3-128/", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c8/Radio_SAW_Logo_2018.svg/512px-Radio_SAW_Logo_2018.svg.png", Region: "Sachsen-Anhalt", Genre: "Schlager"},
	{ID: "saw70er", Name: "SAW 70er", StreamURL: "https://stream.radiosaw.de/saw-70er/mp3-192/", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c8/Radio_SAW_Logo_2018.svg/512px-Radio_SAW_Logo_2018.svg.png", Region: "Sachsen-Anhalt", Genre: "70er"},
	{ID: "saw80er", Name: "SAW 80er", StreamURL: "https://stream.radiosaw.de/saw-80er/mp3-192/", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c8/Radio_SAW_Logo_2018.svg/512px-Radio_SAW_Logo_2018.svg.png", Region: "Sachsen-Anhalt", Genre: "80er"},
	{ID: "saw90er", Name: "SAW 90er", StreamURL: "https://stream.radiosaw.de/saw-90er/mp3-192/", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c8/Radio_SAW_Logo_2018.svg/512px-Radio_SAW_Logo_2018.svg.png", Region: "Sachsen-Anhalt", Genre: "90er"},
	{ID: "saw2000er", Name: "SAW 2000er", StreamURL: "https://stream.radiosaw.de/saw-2000er/mp3-192/", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c8/Radio_SAW_Logo_2018.svg/512px-Radio_SAW_Logo_2018.svg.png", Region: "Sachsen-Anhalt", Genre: "2000er"},
	{ID: "rockland", Name: "Rockland", StreamURL: "https://stream.radiosaw.de/rockland/mp3-192/", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c8/Radio_SAW_Logo_2018.svg/512px-Radio_SAW_Logo_2018.svg.png", Region: "Sachsen-Anhalt", Genre: "Rock"},
	{ID: "sawparty", Name: "SAW Party", StreamURL: "https://stream.radiosaw.de/saw-party/mp3-192/", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c8/Radio_SAW_Logo_2018.svg/512px-Radio_SAW_Logo_2018.svg.png", Region: "Sachsen-Anhalt", Genre: "Party"},
	{ID: "sawschlagerparty", Name: "SAW Schlagerparty", StreamURL: "https://stream.radiosaw.de/saw-schlagerparty/mp3-192/", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c8/Radio_SAW_Logo_2018.svg/512px-Radio_SAW_Logo_2018.svg.png", Region: "Sachsen-Anhalt", Genre: "Schlager"},
	{ID: "antennebayern", Name: "Antenne Bayern", StreamURL: "https://antennebayern.cast.addradio.de/antennebayern/live/mp3/128/stream.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/2/2e/Antenne_Bayern_Logo.svg/512px-Antenne_Bayern_Logo.svg.png", Region: "Bayern", Genre: "Pop"},
	{ID: "104.6rtl", Name: "104.6 RTL", StreamURL: "https://stream.104.6rtl.com/rtl", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/3/3d/104.6_RTL_Logo.svg/512px-104.6_RTL_Logo.svg.png", Region: "Berlin", Genre: "Top 40"},
	{ID: "radioeins", Name: "radioeins", StreamURL: "http://rbb-radioeins-live.cast.addradio.de/rbb/radioeins/live/mp3/128/stream.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/2/2d/Radio_Eins_Logo.svg/512px-Radio_Eins_Logo.svg.png", Region: "Berlin/Brandenburg", Genre: "Rock"},
	{ID: "bremenzwei", Name: "Bremen Zwei", StreamURL: "https://icecast.radiobremen.de/rb/bremenzwei/live/mp3/128/stream.mp3", LogoURL: "https://www.bremenzwei.de/static/img/favicons/apple-touch-icon-180.png", Region: "Bremen", Genre: "Kultur"},
	{ID: "rockantenne", Name: "Rock Antenne", StreamURL: "https://stream.rockantenne.de/rockantenne/stream/mp3", LogoURL: "https://www.rockantenne.de/logos/station-rock-antenne/apple-touch-icon.png", Region: "Bayern", Genre: "Rock"},
	{ID: "radiobob", Name: "Radio Bob", StreamURL: "https://streams.radiobob.de/bob-national/mp3-192/", LogoURL: "https://www.radiobob.de/favicon.ico", Region: "Bundesweit", Genre: "Rock"},
	{ID: "wdrcosmo", Name: "WDR Cosmo", StreamURL: "https://wdr-wdrcosmo-live.icecastssl.wdr.de/wdr/wdrcosmo/live/mp3/128/stream.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/8/8b/WDR_Cosmo_Logo.svg/512px-WDR_Cosmo_Logo.svg.png", Region: "NRW", Genre: "World"},
	{ID: "ndrkultur", Name: "NDR Kultur", StreamURL: "https://icecast.ndr.de/ndr/ndrkultur/live/mp3/128/stream.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/3/33/NDR_Logo.svg/512px-NDR_Logo.svg.png", Region: "Nord", Genre: "Kultur"},
	{ID: "br2", Name: "BR-Klassik", StreamURL: "https://dispatcher.rndfnk.com/br/br2/live/mp3/mid", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/2/2a/Bayern_2_Logo.svg/512px-Bayern_2_Logo.svg.png", Region: "Bayern", Genre: "Klassik"},
	{ID: "swr1bw", Name: "SWR1 BW", StreamURL: "https://liveradio.swr.de/sw282p3/swr1bw/play.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/7/7d/SWR1_Logo.svg/512px-SWR1_Logo.svg.png", Region: "Südwest", Genre: "Schlager"},
	{ID: "swr4", Name: "SWR4", StreamURL: "https://liveradio.swr.de/sw282p3/swr4bw/play.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/4/4b/SWR4_Logo.svg/512px-SWR4_Logo.svg.png", Region: "Südwest", Genre: "Schlager"},
	{ID: "hr1", Name: "HR1", StreamURL: "http://hr-hr1-live.cast.addradio.de/hr/hr1/live/mp3/128/stream.mp3", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/3/3e/HR1_Logo.svg/512px-HR1_Logo.svg.png", Region: "Hessen", Genre: "Schlager"},
	{ID: "rbb888", Name: "rbb 88.8", StreamURL: "http://rbb-888-live.cast.addradio.de/rbb/888/live/mp3/128/stream.mp3", LogoURL: "https://www.rbb88-8.de/apple-touch-icon.png", Region: "Berlin", Genre: "Info"},
	{ID: "energy", Name: "Energy", StreamURL: "https://stream.energy.de/energy.mp3", LogoURL: "https://www.energy.de/favicon.ico", Region: "Bundesweit", Genre: "Charts"},
}

// DefaultCatalog returns a catalog over Builtin.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(Builtin)
	if err != nil {
		panic(err)
	}
	return c
}
