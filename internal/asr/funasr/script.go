package funasr

// workerScript is the Python side of the JSON line protocol. The variant's
// model name and static generate arguments arrive in the init config, so
// one script serves all variants.
const workerScript = `
import json
import sys


def main():
    cfg = json.loads(sys.stdin.readline())
    try:
        from funasr import AutoModel

        model = AutoModel(
            model=cfg["model"],
            device=cfg.get("device") or "cpu",
            disable_update=True,
            trust_remote_code=False,
        )
    except Exception as exc:
        print(json.dumps({"error": str(exc)}), flush=True)
        return
    print(json.dumps({"event": "ready"}), flush=True)

    for line in sys.stdin:
        line = line.strip()
        if not line:
            continue
        req = json.loads(line)
        try:
            args = dict(cfg.get("generate") or {})
            args["input"] = req["audio"]
            args["cache"] = {}
            if req.get("language"):
                args["language"] = req["language"]
            if req.get("hotword"):
                args["hotword"] = req["hotword"]
            res = model.generate(**args)
            first = res[0] if isinstance(res, list) and res else {}
            raw = {}
            for key in ("text", "timestamp", "sentence_info"):
                if key in first:
                    raw[key] = first[key]
            print(json.dumps({"raw": raw}, ensure_ascii=False), flush=True)
        except Exception as exc:
            print(json.dumps({"error": str(exc)}), flush=True)


main()
`
